package config

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Schema   SchemaConfig   `mapstructure:"schema"`
	Output   OutputConfig   `mapstructure:"output"`
	Layout   LayoutConfig   `mapstructure:"layout"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type SchemaConfig struct {
	File          string   `mapstructure:"file"`
	IncludeTables []string `mapstructure:"include_tables"`
	ExcludeTables []string `mapstructure:"exclude_tables"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type LayoutConfig struct {
	Strategy string `mapstructure:"strategy"`
	Seed     int64  `mapstructure:"seed"`
}
