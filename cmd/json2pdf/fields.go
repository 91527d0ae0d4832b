package main

import (
	"fmt"
	"strings"

	json2pdf "github.com/Adoubf/json2pdf"
)

// runFields prints the field names of the first record, one per line or as
// a single comma list.
func runFields(args []string, env *Environment) error {
	flags, positional, err := parseFieldsFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: fields takes exactly one input file", ErrUsage)
	}

	names, err := json2pdf.DiscoverFields(positional[0])
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: %s has no records", json2pdf.ErrEmptyOrInvalidInput, positional[0])
	}

	if flags.comma {
		fmt.Fprintln(env.Stdout, strings.Join(names, ","))
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(env.Stdout, name)
	}
	return nil
}
