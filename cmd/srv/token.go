package main

import (
	"errors"
	"fmt"

	"github.com/scratchcard-lab/backend/internal/entity"
	"github.com/scratchcard-lab/backend/internal/model"
	"github.com/scratchcard-lab/backend/pkg/authenticator"
	"github.com/scratchcard-lab/backend/pkg/enum"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startToken(cctx *cli.Context) error {
	userID := cctx.Args().First()
	if userID == "" {
		return errors.New("user id is required")
	}

	role, err := enum.ToEnum[entity.Role](cctx.String("role"))
	if err != nil {
		return err
	}

	cfg := xcontext.Configs(s.ctx).Auth
	tokenEngine := authenticator.NewTokenEngine[model.AccessToken](cfg.TokenSecret, cfg.AccessToken.Expiration)
	token, err := tokenEngine.Generate(userID, model.AccessToken{ID: userID, Role: string(role)})
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
