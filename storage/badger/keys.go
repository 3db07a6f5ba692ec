package badger

import (
	"fmt"

	"github.com/poiesic/hyperkg/core"
)

// Key prefixes for different data types
const (
	nodeRecordPrefix = "gnode"
	nodeLabelPrefix  = "glabel"
	adjacencyPrefix  = "gadj"
	pointPrefix      = "gpoint"
	conePrefix       = "gcone"
)

// makeNodeKey generates a key for a node record by ID.
func makeNodeKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", nodeRecordPrefix, id))
}

// makeLabelKey generates a key for the label index. The label itself is not
// stored in the key; its content hash is, so arbitrary labels stay fixed-width.
func makeLabelKey(label string) []byte {
	return []byte(fmt.Sprintf("%s:%d", nodeLabelPrefix, core.IDFromContent(label)))
}

// makeAdjacencyKey generates a key for a node's outgoing edge list.
func makeAdjacencyKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", adjacencyPrefix, id))
}

// makePointKey generates a key for a node's hyperbolic point.
func makePointKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", pointPrefix, id))
}

// makeConeKey generates a key for a node's entailment cone.
func makeConeKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", conePrefix, id))
}
