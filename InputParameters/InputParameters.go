package InputParameters

import (
	"fmt"
	"reflect"

	"github.com/ghodss/yaml"
	"github.com/go-playground/validator/v10"

	"github.com/notargets/viscousflow/utils"
)

// Parameters obtained from the YAML input file
type InputParametersNS struct {
	Title           string          `json:"Title"`
	Re              float64         `json:"Re" validate:"gt=0"`
	Dx              float64         `json:"Dx" validate:"gt=0"`
	XLim            [2]float64      `json:"XLim" validate:"interval"`
	YLim            [2]float64      `json:"YLim" validate:"interval"`
	Dt              float64         `json:"Dt" validate:"gt=0"`
	FinalTime       float64         `json:"FinalTime" validate:"gt=0"`
	Tableau         string          `json:"Tableau" validate:"omitempty,oneof=Euler1 Heun2 Kutta3 euler1 heun2 kutta3"`
	Stride          int             `json:"Stride" validate:"gte=0"`
	FlowSide        string          `json:"FlowSide"`
	DDF             string          `json:"DDF"`
	StaticPoints    bool            `json:"StaticPoints"`
	Freestream      FreestreamInput `json:"Freestream"`
	Bodies          []BodyInput     `json:"Bodies" validate:"dive"`
	InitialVortices []VortexInput   `json:"InitialVortices" validate:"dive"`
	Pulses          []PulseInput    `json:"Pulses" validate:"dive"`
}

// FreestreamInput is a constant stream U, or with RampTime > 0 a stream growing from rest towards U.
type FreestreamInput struct {
	U        [2]float64 `json:"U"`
	RampTime float64    `json:"RampTime" validate:"gte=0"`
}

/*
BodyInput describes one rigid body. Shape selects which of the geometric fields apply:
	circle:  Radius, NPoints
	ellipse: A, B, NPoints
	plate:   Length, NPoints
	polygon: XV, YV, DS
When NPoints (or DS for a polygon) is zero the point spacing follows from the grid spacing.
Center and Angle (degrees) place the body, and also serve as the reference configuration of its Motion.
*/
type BodyInput struct {
	Shape   string       `json:"Shape" validate:"required,oneof=circle ellipse plate polygon"`
	Radius  float64      `json:"Radius" validate:"gte=0"`
	A       float64      `json:"A" validate:"gte=0"`
	B       float64      `json:"B" validate:"gte=0"`
	Length  float64      `json:"Length" validate:"gte=0"`
	NPoints int          `json:"NPoints" validate:"gte=0"`
	XV      []float64    `json:"XV"`
	YV      []float64    `json:"YV"`
	DS      float64      `json:"DS" validate:"gte=0"`
	Center  [2]float64   `json:"Center"`
	Angle   float64      `json:"Angle"`
	Motion  *MotionInput `json:"Motion" validate:"omitempty"`
}

/*
MotionInput prescribes rigid motion about the body's placement:
	stationary:  none
	constant:    U, Omega (radians per unit time)
	oscillation: Ax, Ay, AAlpha, PhiX, PhiY, PhiAlpha, Omega (angles and phases in degrees)
	ramp:        U, Tau
*/
type MotionInput struct {
	Type     string     `json:"Type" validate:"required,oneof=stationary constant oscillation ramp"`
	U        [2]float64 `json:"U"`
	Omega    float64    `json:"Omega"`
	Ax       float64    `json:"Ax"`
	Ay       float64    `json:"Ay"`
	AAlpha   float64    `json:"AAlpha"`
	PhiX     float64    `json:"PhiX"`
	PhiY     float64    `json:"PhiY"`
	PhiAlpha float64    `json:"PhiAlpha"`
	Tau      float64    `json:"Tau" validate:"gte=0"`
}

// VortexInput is a Lamb-Oseen vortex present at the start of the run.
type VortexInput struct {
	Center [2]float64 `json:"Center"`
	Gamma  float64    `json:"Gamma"`
	Sigma  float64    `json:"Sigma" validate:"gt=0"`
}

// PulseInput is a Gaussian vorticity source, Sigma wide in space and SigmaT wide in time about T0.
type PulseInput struct {
	Center   [2]float64 `json:"Center"`
	Sigma    float64    `json:"Sigma" validate:"gt=0"`
	Strength float64    `json:"Strength"`
	T0       float64    `json:"T0"`
	SigmaT   float64    `json:"SigmaT" validate:"gt=0"`
}

const ExampleFile = `
########################################
Title: "Cylinder at Re = 200"
Re: 200
Dx: 0.02
XLim: [-1, 3]
YLim: [-1.5, 1.5]
Dt: 0.01
FinalTime: 5
Tableau: Kutta3
Stride: 50
FlowSide: External  # Internal, ExternalInternal
DDF: Roma           # Witchhat, M4Prime, Peskin4
Freestream:
  U: [1, 0]
  RampTime: 0.1
Bodies:
  - Shape: circle
    Radius: 0.5
    Center: [0, 0]
########################################
`

var nsValidate *validator.Validate

func init() {
	nsValidate = validator.New()
	if err := nsValidate.RegisterValidation("interval", validateInterval); err != nil {
		panic(err)
	}
}

// validateInterval requires a two element limit pair in increasing order.
func validateInterval(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.Array || f.Len() != 2 {
		return false
	}
	return f.Index(0).Float() < f.Index(1).Float()
}

func (ip *InputParametersNS) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return fmt.Errorf("%w: reading input: %v", utils.ErrConfiguration, err)
	}
	return ip.Validate()
}

func (ip *InputParametersNS) Validate() (err error) {
	if err = nsValidate.Struct(ip); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrConfiguration, err)
	}
	return
}

func (ip *InputParametersNS) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.3f\t\t= Re\n", ip.Re)
	fmt.Printf("%8.5f\t\t= Dx\n", ip.Dx)
	fmt.Printf("[%g, %g] x [%g, %g]\t= Domain\n", ip.XLim[0], ip.XLim[1], ip.YLim[0], ip.YLim[1])
	fmt.Printf("%8.5f\t\t= Dt\n", ip.Dt)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("[%s]\t\t\t= Tableau\n", ip.Tableau)
	fmt.Printf("[%s]\t\t= Flow Side\n", ip.FlowSide)
	fmt.Printf("[%s]\t\t\t= Delta Function\n", ip.DDF)
	fmt.Printf("(%g, %g) ramp %g\t= Freestream\n", ip.Freestream.U[0], ip.Freestream.U[1],
		ip.Freestream.RampTime)
	for k, b := range ip.Bodies {
		motion := "stationary"
		if b.Motion != nil {
			motion = b.Motion.Type
		}
		fmt.Printf("Bodies[%d] = %s at (%g, %g), %g deg, %s\n", k, b.Shape, b.Center[0], b.Center[1],
			b.Angle, motion)
	}
	for k, v := range ip.InitialVortices {
		fmt.Printf("InitialVortices[%d] = Gamma %g, Sigma %g at (%g, %g)\n", k, v.Gamma, v.Sigma,
			v.Center[0], v.Center[1])
	}
	for k, p := range ip.Pulses {
		fmt.Printf("Pulses[%d] = Strength %g at (%g, %g), T0 %g\n", k, p.Strength, p.Center[0],
			p.Center[1], p.T0)
	}
}
