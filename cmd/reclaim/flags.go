package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jamesainslie/reclaim/pkg/reclaim/output"
)

// Output flag variables.
var (
	outputFormat string
	templateStr  string
	savePath     string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format (pretty, plain, json, jsonl, yaml, csv, tsv, markdown, paths, null, template)")
	rootCmd.PersistentFlags().StringVar(&templateStr, "template", "", "Go template for -o template")
	rootCmd.PersistentFlags().StringVar(&savePath, "save", "", "write the raw scan result to a file for later use with delete")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("template", rootCmd.PersistentFlags().Lookup("template"))
	_ = viper.BindPFlag("save", rootCmd.PersistentFlags().Lookup("save"))
}

// resolveFormatter selects the output formatter from flags and config.
func resolveFormatter() (output.Formatter, error) {
	outFormat := viper.GetString("output")
	if outFormat == "" {
		outFormat = viper.GetString("output.format")
	}
	if outFormat == "" {
		outFormat = "pretty"
	}

	if outFormat == "template" {
		// Handle custom template format
		tmplStr := viper.GetString("template")
		if tmplStr == "" {
			return nil, fmt.Errorf("--template is required when using -o template")
		}
		return output.NewTemplateFormatter(tmplStr), nil
	}

	formatter, err := output.Get(outFormat)
	if err != nil {
		return nil, fmt.Errorf("unknown output format %q: available formats are %v", outFormat, output.Available())
	}
	return formatter, nil
}
