package entity

import (
	"github.com/tsinghua-fib-lab/intersection-rl/clock"
	"github.com/tsinghua-fib-lab/intersection-rl/utils/config"
)

type ITaskContext interface {
	Clock() *clock.Clock
	Config() config.Config
	Junction() IJunction
}
