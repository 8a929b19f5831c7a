package types

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum level logged: debug, info, warn or error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// ConversionConfig holds defaults for the convert command.
type ConversionConfig struct {
	// OutputDir receives one output file per input when no explicit
	// output path is given.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// DefaultTarget is the target language used when neither --to nor an
	// output path names one.
	DefaultTarget string `json:"default_target" yaml:"default_target" mapstructure:"default_target"`
}

// PandocFormat is a language handled by the external pandoc binary.
type PandocFormat struct {
	// Name is both the podoc language name and pandoc's format name
	// (e.g. "html", "rst", "docx").
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Ext is the file extension, including the leading dot.
	Ext string `json:"ext" yaml:"ext" mapstructure:"ext"`

	// Binary marks formats pandoc can only write to a file (docx, odt).
	Binary bool `json:"binary,omitempty" yaml:"binary,omitempty" mapstructure:"binary"`
}

// PandocConfig holds settings for the pandoc bridge.
type PandocConfig struct {
	// Enabled attaches the bridge when the binary is found.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Binary is the pandoc executable name or path (default "pandoc").
	Binary string `json:"binary" yaml:"binary" mapstructure:"binary"`

	// Formats lists the languages registered through pandoc. Empty means
	// DefaultPandocFormats.
	Formats []PandocFormat `json:"formats,omitempty" yaml:"formats,omitempty" mapstructure:"formats"`
}

// JournalConfig holds settings for the conversion journal.
type JournalConfig struct {
	// Enabled records every file conversion in the journal database.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Path is the SQLite database file (default ".podoc/journal.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// MaxResults is the default number of entries listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// Config groups every podoc setting; it is the shape of podoc.yaml.
type Config struct {
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion" mapstructure:"conversion"`
	Pandoc     PandocConfig     `json:"pandoc" yaml:"pandoc" mapstructure:"pandoc"`
	Journal    JournalConfig    `json:"journal" yaml:"journal" mapstructure:"journal"`
}

// DefaultPandocFormats are the languages the pandoc bridge registers when
// the configuration lists none.
func DefaultPandocFormats() []PandocFormat {
	return []PandocFormat{
		{Name: "html", Ext: ".html"},
		{Name: "rst", Ext: ".rst"},
		{Name: "latex", Ext: ".tex"},
		{Name: "org", Ext: ".org"},
		{Name: "docx", Ext: ".docx", Binary: true},
		{Name: "odt", Ext: ".odt", Binary: true},
	}
}

// DefaultConfig returns the settings used when no configuration file is
// found.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Pandoc: PandocConfig{
			Enabled: true,
			Binary:  "pandoc",
		},
		Journal: JournalConfig{
			Enabled:    true,
			Path:       ".podoc/journal.db",
			MaxResults: 20,
		},
	}
}
