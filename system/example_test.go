package system_test

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-lti/core"
	"github.com/cwbudde/algo-lti/system"
)

func ExampleAnalyzer_Build() {
	a := system.NewAnalyzer(core.WithSampleRate(1000))

	tf, err := a.Build(system.MovingAverageParams{Window: 4})
	if err != nil {
		panic(err)
	}

	fmt.Printf("order %d, dc gain %.2f\n", tf.Order(), cmplx.Abs(tf.DCGain()))
	fmt.Printf("taps %.2f %.2f %.2f %.2f\n", tf.Num[0], tf.Num[1], tf.Num[2], tf.Num[3])

	// Output:
	// order 3, dc gain 1.00
	// taps 0.25 0.25 0.25 0.25
}

func ExampleAnalyzer_Stability() {
	a := system.NewAnalyzer()

	tf, err := a.Build(system.CustomParams{
		Num:    []float64{1},
		Den:    []float64{1, -0.5},
		Domain: system.DomainDiscrete,
	})
	if err != nil {
		panic(err)
	}

	verdict, poles, err := a.Stability(tf)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%s, pole at %.1f\n", verdict, real(poles[0]))

	// Output:
	// stable, pole at 0.5
}
