package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-frontend/pkg/simplefrontend"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/config"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/contentmodel"
)

// loadModel loads the model named by the first argument, falling back to CONTENT_MODEL.
func loadModel(args []string) (*contentmodel.ContentModel, string, error) {
	opts := []config.Option{config.WithEnv("")}
	if len(args) > 0 {
		opts = append(opts, config.WithContentModel(args[0]))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, "", err
	}
	model, err := cfg.LoadContentModel()
	if err != nil {
		return nil, cfg.ContentModelPath, err
	}
	return model, cfg.ContentModelPath, nil
}

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [model.yaml]",
		Short: "Validate a content model file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, path, err := loadModel(args)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (%d content types)\n", path, model.Len())
			return nil
		},
	}
}

// NewTypesCommand creates the types command
func NewTypesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "types [model.yaml]",
		Short: "List content types and their fields",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, _, err := loadModel(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeTypesJSON(out, model)
			}
			for _, ct := range model.ContentTypes() {
				endpoint, _ := ct.APIEndpoint()
				fmt.Fprintf(out, "%s (%s)\n", ct.Name(), endpoint)
				printFields(out, ct.Fields(), 1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func printFields(out io.Writer, fields *contentmodel.ContentFieldCollection, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, f := range fields.All() {
		fmt.Fprintf(out, "%s%s: %s\n", indent, f.Name(), f.Type())
		if af, ok := f.(*contentmodel.ArrayField); ok {
			printFields(out, af.Fields(), depth+1)
		}
	}
}

type fieldJSON struct {
	Name   string      `json:"name"`
	Type   string      `json:"type"`
	Fields []fieldJSON `json:"fields,omitempty"`
}

type typeJSON struct {
	Name        string      `json:"name"`
	APIEndpoint string      `json:"api_endpoint"`
	Fields      []fieldJSON `json:"fields"`
}

func writeTypesJSON(out io.Writer, model *contentmodel.ContentModel) error {
	var toJSON func(*contentmodel.ContentFieldCollection) []fieldJSON
	toJSON = func(fields *contentmodel.ContentFieldCollection) []fieldJSON {
		list := make([]fieldJSON, 0, fields.Len())
		for _, f := range fields.All() {
			item := fieldJSON{Name: f.Name(), Type: f.Type()}
			if af, ok := f.(*contentmodel.ArrayField); ok {
				item.Fields = toJSON(af.Fields())
			}
			list = append(list, item)
		}
		return list
	}

	types := make([]typeJSON, 0, model.Len())
	for _, ct := range model.ContentTypes() {
		endpoint, _ := ct.APIEndpoint()
		types = append(types, typeJSON{Name: ct.Name(), APIEndpoint: endpoint, Fields: toJSON(ct.Fields())})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(types)
}

// NewCacheKeyCommand creates the cachekey command. Arguments that parse as JSON
// (numbers, booleans, null, flat objects) are used as typed values, anything else
// as a string.
func NewCacheKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cachekey [params...]",
		Short: "Compute the cache key for a list of parameters",
		Example: `  contentmodel cachekey news 2 '{"lang":"en","page":2}'
  contentmodel cachekey "blog/archive 2024"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make([]any, 0, len(args))
			for _, arg := range args {
				params = append(params, parseParam(arg))
			}
			key, err := simplefrontend.BuildCacheKeyFrom(params...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
}

func parseParam(arg string) any {
	dec := json.NewDecoder(strings.NewReader(arg))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return arg
	}
	return v
}

// NewCacheCommand creates the cache command group
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the configured cache (CACHE_URL)",
	}
	cmd.AddCommand(newCacheGetCommand())
	cmd.AddCommand(newCacheDeleteCommand())
	return cmd
}

func buildCache(cmd *cobra.Command) (simplefrontend.CacheStore, error) {
	cfg, err := config.Load(config.WithEnv(""))
	if err != nil {
		return nil, err
	}
	return cfg.BuildCacheStore(cmd.Context())
}

func newCacheGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a cached payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := buildCache(cmd)
			if err != nil {
				return err
			}
			value, err := store.Get(cmd.Context(), simplefrontend.FilterCacheKey(args[0]))
			if errors.Is(err, simplefrontend.ErrCacheMiss) {
				return fmt.Errorf("no cached payload for %q", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(value))
			return nil
		},
	}
}

func newCacheDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a cached payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := buildCache(cmd)
			if err != nil {
				return err
			}
			key := simplefrontend.FilterCacheKey(args[0])
			if err := store.Delete(cmd.Context(), key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", key)
			return nil
		},
	}
}
