package pool

import (
	"sync"
)

// BufferPool manages reusable byte buffers of a single size class so chunked
// transfers do not allocate one buffer per chunk.
type BufferPool struct {
	size int64
	pool *sync.Pool
}

// NewBufferPool creates a pool of buffers of the given size in bytes.
func NewBufferPool(size int64) *BufferPool {
	return &BufferPool{
		size: size,
		pool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, size)
				return &buf
			},
		},
	}
}

// Size returns the size class of the pool's buffers.
func (bp *BufferPool) Size() int64 {
	return bp.size
}

// Get returns a buffer of the pool's full size class. The caller is
// responsible for calling Put to return the buffer to the pool.
func (bp *BufferPool) Get() []byte {
	bufPtr := bp.pool.Get().(*[]byte)
	return (*bufPtr)[:bp.size]
}

// Put returns a buffer to the pool. The buffer should not be used after
// calling Put. Buffers of the wrong size class are dropped.
func (bp *BufferPool) Put(buf []byte) {
	if int64(cap(buf)) < bp.size {
		return
	}
	buf = buf[:bp.size]
	bp.pool.Put(&buf)
}
