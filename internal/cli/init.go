package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/phonebook/internal/paths"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// configFile is the structure written to config.yaml.
type configFile struct {
	Backend        string `yaml:"backend"`
	DataDir        string `yaml:"data_dir,omitempty"`
	BirthdayPolicy string `yaml:"birthday_policy"`
	PageSize       int    `yaml:"page_size"`
	LogLevel       string `yaml:"log_level"`
}

const configHeader = `# Phonebook configuration.
# birthday_policy: lenient leaves an unparsable birthday unset, strict rejects it.
# Every key except data_dir can be overridden with PHONEBOOK_<KEY>.
`

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize phonebook configuration and storage",
		Long:  "Write config.yaml if it is missing, then create the data directory and an empty contact file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(a.configDir, 0o755); err != nil {
				return sysErr("create config directory: %w", err)
			}
			written, err := writeConfigIfMissing(paths.ConfigFile(a.configDir), a.cfg)
			if err != nil {
				return sysErr("write config: %w", err)
			}
			if err := a.withStore(false, func(*types.AddressBook) error { return nil }); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if written {
				fmt.Fprintf(out, "Wrote %s\n", paths.ConfigFile(a.configDir))
			}
			fmt.Fprintf(out, "Phone book initialized in %s\n", a.cfg.DataDir)
			return nil
		},
	}
}

// writeConfigIfMissing creates config.yaml from cfg when the file does not
// exist. It reports whether the file was written.
func writeConfigIfMissing(path string, cfg types.Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	data, err := yaml.Marshal(&configFile{
		Backend:        cfg.Backend,
		DataDir:        cfg.DataDir,
		BirthdayPolicy: string(cfg.Policy()),
		PageSize:       cfg.Pages(),
		LogLevel:       cfg.LogLevel,
	})
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
