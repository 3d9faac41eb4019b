package model

var (
	CardsMintedTopic = "CARDS_MINTED"
)
