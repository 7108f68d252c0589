package idgen

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node. Later calls are no-ops.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New returns a time-ordered unique document id.
// Falls back to node 0 when Init was never called (tests, CLI).
func New() string {
	_ = Init(0)
	return strconv.FormatInt(node.Generate().Int64(), 10)
}
