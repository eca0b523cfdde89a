package tree

import (
	"encoding/hex"
	"fmt"
	"strconv"

	mt "github.com/txaty/go-merkletree"

	"nasaudit/internal/hash"
)

// leafBlock feeds one leaf into the merkle tree.
type leafBlock struct {
	id   string
	hash string
	size float64
}

func (b leafBlock) Serialize() ([]byte, error) {
	data := make([]byte, 0, len(b.id)+len(b.hash)+24)
	data = append(data, b.id...)
	data = append(data, 0)
	data = append(data, b.hash...)
	data = append(data, 0)
	data = strconv.AppendFloat(data, b.size, 'f', -1, 64)
	return data, nil
}

// Fingerprint returns a merkle root over the leaves of idx, sorted by id.
// Two indexes built from the same inventory always share a fingerprint.
func Fingerprint(idx *Index) (string, error) {
	leaves := idx.Leaves()

	switch len(leaves) {
	case 0:
		return hash.Sum([]byte("empty-index")), nil
	case 1:
		// go-merkletree needs at least two blocks.
		data, _ := leafBlock{id: leaves[0].ID, hash: leaves[0].Hash, size: leaves[0].Size}.Serialize()
		sum, err := hash.XXHashFunc(data)
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(sum), nil
	}

	blocks := make([]mt.DataBlock, 0, len(leaves))
	for _, n := range leaves {
		blocks = append(blocks, leafBlock{id: n.ID, hash: n.Hash, size: n.Size})
	}

	tree, err := mt.New(&mt.Config{
		HashFunc: hash.XXHashFunc,
		Mode:     mt.ModeTreeBuild,
	}, blocks)
	if err != nil {
		return "", fmt.Errorf("failed to build merkle tree: %w", err)
	}

	return hex.EncodeToString(tree.Root), nil
}
