package noise_test

import (
	"fmt"

	"github.com/matzehuels/ridgeline/pkg/noise"
)

func ExampleNewSimplex() {
	a := noise.NewSimplex(noise.NewRand(2024))
	b := noise.NewSimplex(noise.NewRand(2024))

	fmt.Println(a.Eval(0.25, 0.75) == b.Eval(0.25, 0.75))
	fmt.Println(a.Eval(0, 0))
	// Output:
	// true
	// 0
}

func ExampleNew() {
	f, err := noise.New(noise.KindPerlin, noise.NewRand(1))
	if err != nil {
		fmt.Println(err)
		return
	}
	v := f.Eval(1.5, 2.5)
	fmt.Println(v >= -2 && v <= 2)
	// Output: true
}
