package types

import (
	"fmt"
	"strings"
)

// FlowSide selects which side of the immersed surfaces carries fluid.
type FlowSide uint8

const (
	ExternalFlow FlowSide = iota
	InternalFlow
	ExternalInternalFlow
)

var (
	FlowSideNames = map[string]FlowSide{
		"external":         ExternalFlow,
		"internal":         InternalFlow,
		"externalinternal": ExternalInternalFlow,
		"combined":         ExternalInternalFlow,
	}
	FlowSidePrintNames = []string{"ExternalFlow", "InternalFlow", "ExternalInternalFlow"}
)

func (fs FlowSide) Print() (txt string) {
	if int(fs) < len(FlowSidePrintNames) {
		txt = FlowSidePrintNames[fs]
	}
	return
}

func (fs FlowSide) String() string { return fs.Print() }

func NewFlowSide(label string) (fs FlowSide, err error) {
	var ok bool
	if len(label) == 0 {
		return ExternalFlow, nil
	}
	label = strings.ToLower(label)
	if fs, ok = FlowSideNames[label]; !ok {
		err = fmt.Errorf("unable to use flow side named %s", label)
	}
	return
}

// DDFType names the discrete delta function used for regularization and interpolation.
type DDFType uint8

const (
	DDF_Roma DDFType = iota
	DDF_Witchhat
	DDF_M4Prime
	DDF_Peskin4
)

var (
	DDFNames = map[string]DDFType{
		"roma":     DDF_Roma,
		"witchhat": DDF_Witchhat,
		"m4prime":  DDF_M4Prime,
		"peskin4":  DDF_Peskin4,
		"cosine":   DDF_Peskin4,
	}
	DDFPrintNames = []string{"Roma", "Witchhat", "M4Prime", "Peskin4"}
)

func (dt DDFType) Print() (txt string) {
	if int(dt) < len(DDFPrintNames) {
		txt = DDFPrintNames[dt]
	}
	return
}

func (dt DDFType) String() string { return dt.Print() }

func NewDDFType(label string) (dt DDFType, err error) {
	var ok bool
	if len(label) == 0 {
		return DDF_Roma, nil
	}
	label = strings.ToLower(label)
	if dt, ok = DDFNames[label]; !ok {
		err = fmt.Errorf("unable to use delta function named %s", label)
	}
	return
}

// FreestreamType is Static for a constant vector and Variable for a time-varying law.
type FreestreamType uint8

const (
	StaticFreestream FreestreamType = iota
	VariableFreestream
)

func (ft FreestreamType) String() string {
	switch ft {
	case StaticFreestream:
		return "StaticFreestream"
	case VariableFreestream:
		return "VariableFreestream"
	}
	return fmt.Sprintf("FreestreamType(%d)", ft)
}

// PointMotionType records whether Lagrange points are fixed in time.
type PointMotionType uint8

const (
	StaticPoints PointMotionType = iota
	MovingPoints
)

func (pt PointMotionType) String() string {
	switch pt {
	case StaticPoints:
		return "StaticPoints"
	case MovingPoints:
		return "MovingPoints"
	}
	return fmt.Sprintf("PointMotionType(%d)", pt)
}

// BodyConfig is the body axis of the system configuration:
// no bodies, bodies with fixed points, or bodies with moving points.
type BodyConfig uint8

const (
	Unbounded BodyConfig = iota
	StaticBodies
	MovingBodies
)

func (bc BodyConfig) String() string {
	switch bc {
	case Unbounded:
		return "Unbounded"
	case StaticBodies:
		return "StaticBodies"
	case MovingBodies:
		return "MovingBodies"
	}
	return fmt.Sprintf("BodyConfig(%d)", bc)
}

func NewBodyConfig(nBodies int, pm PointMotionType) BodyConfig {
	switch {
	case nBodies == 0:
		return Unbounded
	case pm == MovingPoints:
		return MovingBodies
	default:
		return StaticBodies
	}
}
