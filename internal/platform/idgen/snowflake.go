package idgen

import (
	"fmt"

	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/bwmarrin/snowflake"
)

// Snowflake generates ids from a snowflake node. Each replica needs its own node id.
type Snowflake struct {
	node *snowflake.Node
}

var _ portssvc.IDGenerator = (*Snowflake)(nil)

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node %d: %w", nodeID, err)
	}
	return &Snowflake{node: node}, nil
}

func (s *Snowflake) NextID() int64 {
	return s.node.Generate().Int64()
}
