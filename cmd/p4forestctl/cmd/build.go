package cmd

import (
	"fmt"

	"github.com/katalvlaran/p4forest/comm"
	"github.com/katalvlaran/p4forest/connectivity"
	"github.com/katalvlaran/p4forest/forest"
	"github.com/katalvlaran/p4forest/quadrant"
)

// buildConnectivity assembles the brick connectivity described by
// cfg.Brick.
func buildConnectivity() (*connectivity.Connectivity, quadrant.Dim, error) {
	dim := quadrant.Dim2
	if cfg.Brick.Dim == 3 {
		dim = quadrant.Dim3
	}
	conn, err := connectivity.NewBrick(dim, cfg.Brick.Mi, cfg.Brick.Ni, cfg.Brick.Ki, cfg.Brick.Periodic)
	if err != nil {
		return nil, dim, fmt.Errorf("building connectivity: %w", err)
	}
	return conn, dim, nil
}

// buildForest assembles the single-process demonstration forest the
// validate and checksum subcommands drive: a brick connectivity from cfg.Brick, refined
// uniformly to cfg.Forest.Level, owned entirely by one local-transport
// rank. The payload is an empty struct; these subcommands only exercise
// structural operations, not user data.
func buildForest() (*forest.Forest[struct{}], error) {
	conn, dim, err := buildConnectivity()
	if err != nil {
		return nil, err
	}

	transports := comm.NewLocal(1)
	init := func(int, quadrant.Quadrant) struct{} { return struct{}{} }
	f, err := forest.NewUniform[struct{}](dim, conn, uint8(cfg.Forest.Level), transports[0], logger, init)
	if err != nil {
		return nil, fmt.Errorf("building forest: %w", err)
	}
	return f, nil
}
