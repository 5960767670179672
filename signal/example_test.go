package signal_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lti/core"
	"github.com/cwbudde/algo-lti/signal"
)

func ExampleGenerator_Generate() {
	g, err := signal.NewGenerator(core.WithSampleRate(1000), core.WithDuration(0.005))
	if err != nil {
		panic(err)
	}

	p := signal.DefaultParams()
	p.Frequency = 250
	x, err := g.Generate(signal.KindSine, p)
	if err != nil {
		panic(err)
	}
	for i, v := range x.Samples {
		if math.Abs(v) < 1e-12 {
			x.Samples[i] = 0
		}
	}

	fmt.Printf("%.0f %.0f %.0f %.0f %.0f\n",
		x.Samples[0], x.Samples[1], x.Samples[2], x.Samples[3], x.Samples[4])

	// Output:
	// 0 1 0 -1 0
}

func ExampleGenerator_Generate_expression() {
	g, err := signal.NewGenerator(core.WithSampleRate(4), core.WithDuration(1))
	if err != nil {
		panic(err)
	}

	p := signal.DefaultParams()
	p.Expression = "2*t + 1"
	x, err := g.Generate(signal.KindExpression, p)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.1f %.1f %.1f %.1f\n",
		x.Samples[0], x.Samples[1], x.Samples[2], x.Samples[3])

	// Output:
	// 1.0 1.5 2.0 2.5
}
