package domain

import "context"

// Service exposes catalog lookups for the authoring workflow.
type Service interface {
	List(ctx context.Context) ([]BlockDefinition, error)
	Get(ctx context.Context, id string) (*BlockDefinition, error)
	Create(ctx context.Context, def *BlockDefinition) (*BlockDefinition, error)
}
