package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/hyperport/hyperport/internal/port"
	"github.com/hyperport/hyperport/internal/rules"
	"github.com/hyperport/hyperport/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newPropsCommand creates a fresh props command instance.
func newPropsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "props",
		Short: "Rewrite property files in a ported firmware tree",
		Long: `Props runs the port pipeline over every build.prop under the target
tree: general build metadata, screen density, device-specific fixes,
fingerprint regeneration, and scheduler tuning.

Rule tables are loaded from the rules directory (props_global.yaml and
scheduler.yaml). A missing or malformed table disables the passes that
need it; the remaining passes still run.`,
		RunE: runProps,
	}

	cmd.Flags().String("root", "", "Ported firmware tree to rewrite (required)")
	cmd.Flags().String("stock", "", "Stock firmware tree used to look up original property values")
	cmd.Flags().String("base-code", "", "Device base code, e.g. mondrian (required)")
	cmd.Flags().String("rom-version", "", "Target ROM version string (required)")
	cmd.Flags().String("android-version", "15", "Android platform version of the port")
	cmd.Flags().Bool("eu", false, "Apply the EU regional rule overlay instead of CN")
	cmd.Flags().String("rules-dir", filepath.Join("devices", "common"), "Directory holding the rule tables")

	for _, name := range []string{"root", "base-code", "rom-version"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}

	return cmd
}

var propsCmd = newPropsCommand()

func runProps(cmd *cobra.Command, _ []string) error {
	root, _ := cmd.Flags().GetString("root")
	stock, _ := cmd.Flags().GetString("stock")
	baseCode, _ := cmd.Flags().GetString("base-code")
	romVersion, _ := cmd.Flags().GetString("rom-version")
	androidVersion, _ := cmd.Flags().GetString("android-version")
	eu, _ := cmd.Flags().GetBool("eu")
	rulesDir, _ := cmd.Flags().GetString("rules-dir")

	v := viper.New()
	v.SetEnvPrefix("HYPERPORT")
	if err := v.BindEnv("build_user"); err != nil {
		return fmt.Errorf("bind build_user: %w", err)
	}
	if err := v.BindEnv("build_host"); err != nil {
		return fmt.Errorf("bind build_host: %w", err)
	}

	general, err := rules.LoadGeneralInfo(filepath.Join(rulesDir, "props_global.yaml"))
	if err != nil {
		return err
	}
	scheduler := rules.LoadScheduler(filepath.Join(rulesDir, "scheduler.yaml"))

	ctx := port.BuildContext{
		StockCode:      baseCode,
		ROMVersion:     romVersion,
		EURegion:       eu,
		AndroidVersion: androidVersion,
		Root:           root,
		Stock:          port.EmptySource{},
		BuildUser:      v.GetString("build_user"),
		BuildHost:      v.GetString("build_host"),
	}
	if stock != "" {
		ctx.Stock = port.StockTree{Root: stock}
	}

	logger.Info("Starting props pipeline",
		logger.String("root", root),
		logger.String("base_code", baseCode),
		logger.String("rom_version", romVersion),
		logger.Bool("eu", eu))

	pipeline := port.NewPipeline(general, scheduler)
	if err := pipeline.Run(ctx); err != nil {
		return err
	}

	logger.Info("Props pipeline complete")
	return nil
}
