package fbx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mogaika/fbxdoc/readat"
)

func newTestReader(data []byte) *readat.Reader {
	return readat.NewReader(bytes.NewReader(data), 0)
}

func assertNodesEqual(t *testing.T, expected, actual *Node) {
	t.Helper()
	if !assert.Equal(t, expected.Name, actual.Name) {
		return
	}
	if assert.Len(t, actual.Properties, len(expected.Properties), expected.Name) {
		for i := range expected.Properties {
			assert.True(t, expected.Properties[i].Equal(actual.Properties[i]),
				"%s property %d: %v != %v", expected.Name, i, expected.Properties[i].Value(), actual.Properties[i].Value())
		}
	}
	if assert.Len(t, actual.Nodes, len(expected.Nodes), expected.Name) {
		for i := range expected.Nodes {
			assertNodesEqual(t, expected.Nodes[i], actual.Nodes[i])
		}
	}
}
