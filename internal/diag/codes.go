package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Code generation: user-facing
	CgInfo               Code = 5000
	CgPhysicalType       Code = 5001
	CgUnboundedArray     Code = 5002
	CgArrayIndexTooLarge Code = 5003
	CgInvalidArrayIndex  Code = 5004
	CgUnitRedefined      Code = 5005
	CgElabQuery          Code = 5006

	// Code generation: internal (reported with SevBug)
	CgNotImplemented Code = 5900
	CgInternalDefect Code = 5901

	// HIR pack loading
	PckInfo           Code = 6000
	PckBadFormat      Code = 6001
	PckBadVersion     Code = 6002
	PckUnknownDesign  Code = 6003
	PckDanglingNodeID Code = 6004
)

var (
	codeDescription = map[Code]string{
		UnknownCode:          "Unknown error",
		CgInfo:               "Code generation information",
		CgPhysicalType:       "Physical type cannot be lowered",
		CgUnboundedArray:     "Array type is unbounded",
		CgArrayIndexTooLarge: "Array index range is too large",
		CgInvalidArrayIndex:  "Invalid array index type",
		CgUnitRedefined:      "Unit is already defined",
		CgElabQuery:          "Elaboration query failed",
		CgNotImplemented:     "Code generation not implemented",
		CgInternalDefect:     "Internal compiler defect",
		PckInfo:              "HIR pack information",
		PckBadFormat:         "Malformed HIR pack",
		PckBadVersion:        "Unsupported HIR pack version",
		PckUnknownDesign:     "Unknown design unit",
		PckDanglingNodeID:    "Reference to unknown HIR node",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("PCK%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
