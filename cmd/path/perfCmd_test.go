package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPaths(t *testing.T) {
	oldSpread, oldDepth := perfPathSpread, perfPathDepth
	defer func() { perfPathSpread, perfPathDepth = oldSpread, oldDepth }()

	perfPathSpread, perfPathDepth = 3, 3
	assert.Equal(t, []string{
		"/__perf/get/0/1/2",
		"/__perf/get/1/1/2",
		"/__perf/get/2/1/2",
	}, getPaths("get"))

	perfPathDepth = 1
	assert.Equal(t, "/__perf/post/2", getPaths("post")[2])
}

func TestPathFor(t *testing.T) {
	paths := []string{"/a", "/b", "/c"}

	// without a stride every call moves on
	assert.Equal(t, "/a", pathFor(paths, 0, 0))
	assert.Equal(t, "/b", pathFor(paths, 1, 1))
	assert.Equal(t, "/a", pathFor(paths, 3, 1))

	// delete and the restoring post hit the same path
	assert.Equal(t, pathFor(paths, 0, 2), pathFor(paths, 1, 2))
	assert.Equal(t, "/b", pathFor(paths, 2, 2))

	// post, get and delete of the mixed benchmark share a path
	for counter := 3; counter < 6; counter++ {
		assert.Equal(t, "/b", pathFor(paths, counter, 3))
	}
	assert.Equal(t, "/a", pathFor(paths, 9, 3))
}
