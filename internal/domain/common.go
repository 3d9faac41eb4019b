package domain

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/scratchcard-lab/backend/internal/common"
	"github.com/scratchcard-lab/backend/pkg/errorx"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{6,15}$`)

func checkPhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return errorx.New(errorx.BadRequest, "Invalid phone number")
	}

	return nil
}

func checkCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errorx.New(errorx.BadRequest, "Name is required")
	}

	if len(name) > 256 {
		return errorx.New(errorx.BadRequest, "Name too long (at most 256 characters)")
	}

	return nil
}

// normalizePagination applies the default limit and caps the limit to the
// configured maximum.
func normalizePagination(ctx context.Context, offset, limit int) (int, int, error) {
	if offset < 0 {
		return 0, 0, errorx.New(errorx.BadRequest, "Offset must not be negative")
	}

	cfg := xcontext.Configs(ctx).ApiServer
	if limit == 0 {
		limit = cfg.DefaultLimit
	}

	if limit < 0 || limit > cfg.MaxLimit {
		return 0, 0, errorx.New(errorx.BadRequest, "Limit must be in range [1, %d]", cfg.MaxLimit)
	}

	return offset, limit, nil
}

// convertVerifyError maps the errors of common.ShopCustomerVerifier.
func convertVerifyError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errorx.New(errorx.NotFound, "Not found customer")
	case errors.Is(err, common.ErrRoleNotAllowed), errors.Is(err, common.ErrNotShopCustomer):
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	default:
		xcontext.Logger(ctx).Errorf("Cannot verify customer: %v", err)
		return errorx.New(errorx.Unavailable, "Cannot get customer")
	}
}
