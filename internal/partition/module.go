package partition

import "go.uber.org/fx"

// Module provides the partition dependencies
var Module = fx.Module("partition",
	fx.Provide(
		NewPartitioner,
		NewWriter,
		NewService,
	),
)
