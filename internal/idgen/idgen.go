// Package idgen produces the opaque unique identifiers assigned to new
// categories, products, invoices and invoice items.
package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicebook/internal/config"
	"go.uber.org/fx"
)

type Generator interface {
	NewID() string
}

type snowflakeGenerator struct {
	node *snowflake.Node
}

func NewSnowflake(node *snowflake.Node) Generator {
	return &snowflakeGenerator{node: node}
}

func (g *snowflakeGenerator) NewID() string {
	return g.node.Generate().String()
}

func NewNode(cfg config.Config) (*snowflake.Node, error) {
	node, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", cfg.SnowflakeNode, err)
	}
	return node, nil
}

// Sequence is a deterministic Generator for tests: prefix-1, prefix-2, ...
type Sequence struct {
	Prefix string
	n      int
}

func (s *Sequence) NewID() string {
	s.n++
	return fmt.Sprintf("%s-%d", s.Prefix, s.n)
}

var Module = fx.Module("idgen",
	fx.Provide(NewNode),
	fx.Provide(NewSnowflake),
)
