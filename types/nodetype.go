package types

import "strings"

// NodeType classifies a node (or a boundary edge/face) for one solution component
type NodeType uint8

const (
	Undefined NodeType = iota
	Inner
	Dirichlet
	Neumann
	Robin
)

var NodeTypeNameMap = map[string]NodeType{
	"inner":     Inner,
	"interior":  Inner,
	"dirichlet": Dirichlet,
	"neumann":   Neumann,
	"neuman":    Neumann,
	"robin":     Robin,
}

func (nt NodeType) String() string {
	switch nt {
	case Inner:
		return "Inner"
	case Dirichlet:
		return "Dirichlet"
	case Neumann:
		return "Neumann"
	case Robin:
		return "Robin"
	default:
		return "Undefined"
	}
}

// Letter is the one character tag used in element listings
func (nt NodeType) Letter() string {
	switch nt {
	case Inner:
		return "I"
	case Dirichlet:
		return "D"
	case Neumann:
		return "N"
	case Robin:
		return "R"
	default:
		return "U"
	}
}

// ParseNodeType is case insensitive, unknown names map to Undefined
func ParseNodeType(name string) NodeType {
	if nt, ok := NodeTypeNameMap[strings.ToLower(strings.TrimSpace(name))]; ok {
		return nt
	}
	return Undefined
}
