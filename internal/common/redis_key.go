package common

import "fmt"

func RedisKeyNotification(eventID string) string {
	return fmt.Sprintf("notification:cards_minted:%s", eventID)
}
