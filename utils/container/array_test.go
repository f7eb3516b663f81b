package container_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/intersection-rl/utils/container"
)

type testItem struct {
	container.IncrementalItemBase
	id int
}

func ids(a *container.IncrementalArray[*testItem]) []int {
	return lo.Map(a.Data(), func(x *testItem, _ int) int { return x.id })
}

func TestArrayInit(t *testing.T) {
	a := container.NewIncrementalArray[*testItem]()
	assert.Equal(t, 0, a.Len())
	a.Prepare()
	assert.Equal(t, 0, a.Len())
}

func TestArrayDeferred(t *testing.T) {
	a := container.NewIncrementalArray[*testItem]()
	items := lo.Map(lo.Range(5), func(i int, _ int) *testItem { return &testItem{id: i} })
	for _, x := range items {
		a.Add(x)
	}
	assert.Equal(t, 0, a.Len())
	add, remove := a.Pending()
	assert.Equal(t, 5, add)
	assert.Equal(t, 0, remove)
	a.Prepare()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, ids(a))

	// 删除在Prepare前不可见
	for _, x := range a.Data() {
		if x.id%2 == 0 {
			a.Remove(x)
		}
	}
	a.Remove(items[0])
	assert.Equal(t, 5, a.Len())
	a.Add(&testItem{id: 5})
	a.Prepare()
	assert.Equal(t, []int{1, 3, 5}, ids(a))
	for i, x := range a.Data() {
		assert.Equal(t, i, x.Index())
	}
}

func TestArrayRemoveAll(t *testing.T) {
	a := container.NewIncrementalArray[*testItem]()
	for i := range 3 {
		a.Add(&testItem{id: i})
	}
	a.Prepare()
	for _, x := range a.Data() {
		a.Remove(x)
	}
	a.Prepare()
	assert.Equal(t, 0, a.Len())
}
