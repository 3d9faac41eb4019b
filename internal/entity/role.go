package entity

import "github.com/scratchcard-lab/backend/pkg/enum"

type Role string

var (
	ShopkeeperRole = enum.New(Role("shopkeeper"))
	CustomerRole   = enum.New(Role("customer"))
)
