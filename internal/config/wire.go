package config

import "github.com/google/wire"

// ProviderSet is the config layer provider set.
var ProviderSet = wire.NewSet(Load)
