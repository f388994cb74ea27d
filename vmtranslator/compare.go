package main

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/xiaobogaga/hackvm/vmtranslator/internal"
)

// compareCmd is the regression check against previously accepted output.
var compareCmd = &cobra.Command{
	Use:   "compare generatedDir referenceDir",
	Short: "Compare the length of generated .asm files with reference files",
	Long: `Compare reports every .asm file of generatedDir whose size differs from
the file of the same name in referenceDir. Files without a reference are
skipped. Equal sizes don't prove equal code, this only catches drift.
`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mismatches, err := internal.CompareLengths(args[0], args[1])
		if err != nil {
			return err
		}
		for _, m := range mismatches {
			fmt.Printf("%s: %d bytes, reference has %d bytes\n", m.Name, m.Generated, m.Reference)
		}
		if len(mismatches) > 0 {
			return fmt.Errorf("%d files differ from the reference", len(mismatches))
		}
		glog.Infof("translator: %s matches %s", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
