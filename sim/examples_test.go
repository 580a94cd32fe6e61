package sim_test

import (
	"errors"
	"fmt"

	"github.com/placement-sim/placement-sim/sim"
)

func ExampleTopology_Diffuse() {
	topo, err := sim.NewTopology(sim.Shape{3, 3},
		[]sim.Feature{sim.NewSource(sim.Coordinate{0, 0}, "w")},
		[]sim.Feature{
			sim.NewSink(sim.Coordinate{2, 2}, "w"),
			sim.NewSink(sim.Coordinate{0, 2}, "w"),
		})
	if err != nil {
		panic(err)
	}
	res, err := topo.Diffuse("w")
	if err != nil {
		panic(err)
	}
	fmt.Printf("max=%d total=%d reached=%d\n", res.MaxSteps, res.TotalSteps, res.Arrival.ReachedCount())
	fmt.Println(res.Arrival.At(sim.Coordinate{1, 1}))
	// Output:
	// max=2 total=4 reached=9
	// 1
}

func ExampleUnreachableSinkError() {
	topo, _ := sim.NewTopology(sim.Shape{1, 3}, nil,
		[]sim.Feature{sim.NewSink(sim.Coordinate{0, 2}, "lost")})

	_, err := topo.Diffuse("lost")

	var unreachable *sim.UnreachableSinkError
	fmt.Println(errors.As(err, &unreachable), unreachable.Unreached)
	// Output:
	// true [(0,2)]
}
