package main

import (
	"fmt"

	"github.com/larocca/refdesk/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

// ConfigResponse is the response for config get commands.
type ConfigResponse struct {
	PDFReader      string `json:"pdf_reader,omitempty"`
	CrossrefMailto string `json:"crossref_mailto,omitempty"`
	DefaultLibrary string `json:"default_library,omitempty"`
	GeminiKeySet   bool   `json:"gemini_key_set"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  refdesk config                            # Show all config
  refdesk config pdf-reader                 # Get specific value
  refdesk config pdf-reader skim            # Set value (per-library)
  refdesk config gemini-key AIza...         # Set value (global)

Keys:
  pdf-reader       PDF reader preference (system, skim, zathura, evince, okular)
  gemini-key       Gemini API key (global; GEMINI_API_KEY overrides)
  crossref-mailto  Contact address sent with registry lookups (global)
  default-library  Library used when none encloses the working directory (global)`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	lib, root := openLibrary()
	lib.Close() // only the root is needed here

	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	global, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading global config: %v", err)
	}

	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("pdf-reader:       %s\n", cfg.PDFReader)
			fmt.Printf("crossref-mailto:  %s\n", global.CrossrefMailto)
			fmt.Printf("default-library:  %s\n", global.DefaultLibrary)
			fmt.Printf("gemini-key:       %s\n", maskKey(config.GetGeminiAPIKey()))
		} else {
			outputJSON(ConfigResponse{
				PDFReader:      cfg.PDFReader,
				CrossrefMailto: global.CrossrefMailto,
				DefaultLibrary: global.DefaultLibrary,
				GeminiKeySet:   config.GetGeminiAPIKey() != "",
			})
		}
		return nil
	}

	key := args[0]
	if len(args) == 1 {
		value := ""
		switch key {
		case "pdf-reader":
			value = cfg.PDFReader
		case "crossref-mailto":
			value = global.CrossrefMailto
		case "default-library":
			value = global.DefaultLibrary
		case "gemini-key":
			value = maskKey(config.GetGeminiAPIKey())
		default:
			exitWithError(ExitError, "unknown config key: %s", key)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(UpdateResponse{Status: "ok", Key: key, Value: value})
		}
		return nil
	}

	value := args[1]
	switch key {
	case "pdf-reader":
		if err := config.ValidatePDFReader(value); err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		cfg.PDFReader = value
		if err := cfg.Save(root); err != nil {
			exitWithError(ExitError, "saving config: %v", err)
		}
	case "crossref-mailto":
		global.CrossrefMailto = value
		if err := config.SaveGlobalConfig(global); err != nil {
			exitWithError(ExitError, "saving global config: %v", err)
		}
	case "default-library":
		global.DefaultLibrary = config.ExpandPath(value)
		if err := config.SaveGlobalConfig(global); err != nil {
			exitWithError(ExitError, "saving global config: %v", err)
		}
	case "gemini-key":
		global.GeminiAPIKey = value
		if err := config.SaveGlobalConfig(global); err != nil {
			exitWithError(ExitError, "saving global config: %v", err)
		}
		value = maskKey(value)
	default:
		exitWithError(ExitError, "unknown config key: %s", key)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

// maskKey hides most of a credential for display.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
