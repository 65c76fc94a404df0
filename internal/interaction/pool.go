package interaction

import "sync"

// scratchPool recycles the world-site buffers used by neighbour sums so that
// repeated trials do not allocate per call.
var scratchPool = sync.Pool{
	New: func() interface{} {
		s := make([]site, 0, 8)
		return &s
	},
}

func getScratch() *[]site {
	return scratchPool.Get().(*[]site)
}

func putScratch(s *[]site) {
	*s = (*s)[:0]
	scratchPool.Put(s)
}
