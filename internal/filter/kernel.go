package filter

import (
	"math"
	"sync"
)

// GaussianKernel generates a normalized 1D Gaussian kernel for the given
// standard deviation in pixels.
//
// The kernel size is 2*ceil(3*sigma)+1, which covers 99.7% of the
// distribution. For sigma <= 0 it returns the identity kernel [1].
func GaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1.0}
	}

	halfSize := KernelRadius(sigma)
	size := halfSize*2 + 1
	kernel := make([]float32, size)

	// G(x) = exp(-x²/(2σ²)); the normalization constant is dropped since
	// the kernel is normalized to sum to 1.
	twoSigmaSq := 2 * sigma * sigma
	sum := float64(0)
	for i := 0; i < size; i++ {
		x := float64(i - halfSize)
		val := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(val)
		sum += val
	}

	invSum := float32(1.0 / sum)
	for i := range kernel {
		kernel[i] *= invSum
	}
	return kernel
}

// KernelRadius returns the half-width in pixels of the Gaussian kernel
// for sigma.
func KernelRadius(sigma float64) int {
	if sigma <= 0 {
		return 0
	}
	return int(math.Ceil(sigma * 3))
}

// QuantizeSigma rounds sigma to the 0.01 pixel step kernels are cached
// at. Blur sizes its support and its kernel from the same quantized value.
func QuantizeSigma(sigma float64) float64 {
	return math.Round(sigma*100) / 100
}

// KernelCache caches Gaussian kernels keyed by the quantized sigma. It is
// safe for concurrent use. A nil cache builds every kernel afresh.
type KernelCache struct {
	mu     sync.RWMutex
	cache  map[int][]float32
	maxLen int
}

// NewKernelCache creates a cache holding at most maxLen kernels.
func NewKernelCache(maxLen int) *KernelCache {
	return &KernelCache{
		cache:  make(map[int][]float32),
		maxLen: maxLen,
	}
}

// Kernel returns the kernel for sigma, rounded to the nearest 0.01 pixel.
func (c *KernelCache) Kernel(sigma float64) []float32 {
	key := int(math.Round(sigma * 100))
	if c == nil {
		return GaussianKernel(float64(key) / 100)
	}

	c.mu.RLock()
	if kernel, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return kernel
	}
	c.mu.RUnlock()

	kernel := GaussianKernel(float64(key) / 100)

	c.mu.Lock()
	if len(c.cache) >= c.maxLen {
		// Evict half; kernels are cheap to rebuild.
		count := 0
		for k := range c.cache {
			delete(c.cache, k)
			count++
			if count >= c.maxLen/2 {
				break
			}
		}
	}
	c.cache[key] = kernel
	c.mu.Unlock()

	return kernel
}

// Len returns the number of cached kernels.
func (c *KernelCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
