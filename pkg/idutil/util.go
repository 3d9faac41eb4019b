package idutil

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

var (
	nodeMutex sync.Mutex
	node      *snowflake.Node
)

// SetNode replaces the snowflake node. Each running api instance should use a
// distinct node id.
func SetNode(id int64) error {
	n, err := snowflake.NewNode(id)
	if err != nil {
		return err
	}

	nodeMutex.Lock()
	node = n
	nodeMutex.Unlock()
	return nil
}

// NextSnowflake returns a time-ordered int64 id.
func NextSnowflake() int64 {
	nodeMutex.Lock()
	if node == nil {
		n, err := snowflake.NewNode(0)
		if err != nil {
			nodeMutex.Unlock()
			panic(err)
		}
		node = n
	}
	current := node
	nodeMutex.Unlock()

	return current.Generate().Int64()
}

func NewUUID() string {
	return uuid.NewString()
}
