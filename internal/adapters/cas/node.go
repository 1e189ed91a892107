package cas

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/buildsched/internal/core/ports"
)

// NodeID is the unique identifier for the data store Graft node.
const NodeID graft.ID = "adapter.data_store"

// DefaultStoreDir is the store directory created under the working
// directory when no override is configured.
const DefaultStoreDir = ".buildsched/store"

func init() {
	graft.Register(graft.Node[ports.DataStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DataStore, error) {
			cwd, err := filepath.Abs(".")
			if err != nil {
				return nil, err
			}
			return NewStore(filepath.Join(cwd, DefaultStoreDir))
		},
	})
}
