package utils

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	getHisto := func(K, Np int) (histo map[int]int) {
		pm := NewPartitionMap(Np, K)
		histo = make(map[int]int)
		for np := 0; np < pm.ParallelDegree; np++ {
			histo[pm.GetBucketDimension(np)]++
		}
		return
	}
	getTotal := func(histo map[int]int) (total int) {
		for key, count := range histo {
			total += key * count
		}
		return
	}
	// The degree is capped by the number of items
	assert.Equal(t, map[int]int{1: 2}, getHisto(2, 32))
	assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
	assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
	assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
	assert.Equal(t, 287, getTotal(getHisto(287, 32)))
	for n := 64; n < 2000; n++ {
		var (
			keys   [2]float64
			keyNum int
		)
		histo := getHisto(n, 32)
		for key := range histo {
			keys[keyNum] = float64(key)
			keyNum++
		}
		if keyNum == 2 {
			assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
		}
		assert.Equal(t, n, getTotal(histo))
	}
	{ // Inverted bucket probe finds the bucket holding each index
		for maxIndex := 10; maxIndex < 500; maxIndex++ {
			pm := NewPartitionMap(5, maxIndex)
			for k := 0; k < maxIndex; k++ {
				tryCount, bn, min, max := pm.getBucketWithTryCount(k)
				mmin, mmax := pm.GetBucketRange(bn)
				assert.True(t, k >= min && k < max && min == mmin && max == mmax && tryCount <= 1)
			}
			bn, _, _ := pm.GetBucket(maxIndex)
			assert.Equal(t, -1, bn)
		}
	}
}

func TestPartitionMapRun(t *testing.T) {
	var (
		n     = 1001
		seen  = make([]int32, n)
		calls int32
	)
	pm := NewPartitionMap(7, n)
	pm.Run(func(bn, kMin, kMax int) {
		atomic.AddInt32(&calls, 1)
		for k := kMin; k < kMax; k++ {
			atomic.AddInt32(&seen[k], 1)
		}
	})
	assert.Equal(t, int32(7), calls)
	for k := range seen {
		assert.Equal(t, int32(1), seen[k])
	}
	{ // Nothing to do still runs one empty bucket per degree
		pm = NewPartitionMap(3, 0)
		pm.Run(func(bn, kMin, kMax int) { assert.Equal(t, kMin, kMax) })
	}
}
