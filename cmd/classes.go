package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/romainsacchi/carculator/core/registry"
	"github.com/romainsacchi/carculator/infra/logger"
)

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List supported vehicle classes and their scope",
	RunE:  runClasses,
}

func init() {
	rootCmd.AddCommand(classesCmd)
}

func runClasses(cmd *cobra.Command, args []string) error {
	reg, err := registry.Default(logger.NopLogger{})
	if err != nil {
		return fmt.Errorf("parameter registry: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, class := range reg.Classes() {
		e, err := reg.For(class)
		if err != nil {
			return err
		}
		pts, err := e.Inputs.Powertrains(class)
		if err != nil {
			return err
		}
		sizes, err := e.Inputs.Sizes(class)
		if err != nil {
			return err
		}
		years, err := e.Inputs.Years(class)
		if err != nil {
			return err
		}
		names := make([]string, len(pts))
		for i, pt := range pts {
			names[i] = string(pt)
		}
		fmt.Fprintf(out, "%s\n", class)
		fmt.Fprintf(out, "  powertrains: %s\n", strings.Join(names, ", "))
		fmt.Fprintf(out, "  sizes: %s\n", strings.Join(sizes, ", "))
		fmt.Fprintf(out, "  years: %s\n", joinInts(years))
	}
	return nil
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}
