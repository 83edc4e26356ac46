package protocol

import "context"

// BlockSource fetches a single 128-byte memory block from a card, keyed by
// its absolute block index (0-8, generation-dependent). Implementations
// may be a live session talking to a station, or a fixed byte slice in
// tests.
type BlockSource interface {
	GetBlock(ctx context.Context, index byte) ([]byte, error)
}

// StaticBlocks is a BlockSource backed by a fixed set of pre-fetched
// blocks, keyed by absolute index. It is the BlockSource used by tests,
// where every block of a card readout is already in memory.
type StaticBlocks map[byte][]byte

// GetBlock returns the block at index, or InvalidBlockSizeError if it is
// absent or the wrong size.
func (b StaticBlocks) GetBlock(_ context.Context, index byte) ([]byte, error) {
	block, ok := b[index]
	if !ok || len(block) != BlockSize {
		return nil, &InvalidBlockSizeError{Expected: BlockSize, Got: len(block)}
	}
	return block, nil
}

// cachingBlocks wraps a BlockSource and keeps every block it has fetched so
// far, so that assembling both a CardReadout and a CardOwnerData from the
// same card only fetches each block once.
type cachingBlocks struct {
	source BlockSource
	cache  map[byte][]byte
}

// NewCachingBlocks wraps source in a per-index fetch cache.
func NewCachingBlocks(source BlockSource) *cachingBlocks {
	return &cachingBlocks{source: source, cache: make(map[byte][]byte)}
}

func (c *cachingBlocks) GetBlock(ctx context.Context, index byte) ([]byte, error) {
	if block, ok := c.cache[index]; ok {
		return block, nil
	}
	block, err := c.source.GetBlock(ctx, index)
	if err != nil {
		return nil, err
	}
	c.cache[index] = block
	return block, nil
}

// fetchBlocks concatenates the blocks at indices, in order, into a single
// contiguous buffer.
func fetchBlocks(ctx context.Context, src BlockSource, indices []byte) ([]byte, error) {
	buf := make([]byte, 0, len(indices)*BlockSize)
	for _, idx := range indices {
		block, err := src.GetBlock(ctx, idx)
		if err != nil {
			return nil, err
		}
		buf = append(buf, block...)
	}
	return buf, nil
}

// readoutBlockIndices returns the absolute block indices a CardReadout is
// assembled from, which depend on the card's memory generation.
func readoutBlockIndices(cardType CardType) []byte {
	switch cardType {
	case Si10, Si11, SIAC:
		return []byte{3, 4, 5, 6, 7}
	default:
		return []byte{0, 1}
	}
}

// ownerDataBlockIndices returns the absolute block indices a CardOwnerData
// is assembled from; unlike readout, every generation reads blocks 0-1.
func ownerDataBlockIndices(_ CardType) []byte {
	return []byte{0, 1}
}
