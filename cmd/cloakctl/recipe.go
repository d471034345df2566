package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cloakproject/cloak/internal/config"
	"github.com/cloakproject/cloak/internal/iotext"
	"github.com/cloakproject/cloak/internal/logging"
	"github.com/cloakproject/cloak/internal/transform"
)

func openRecipeManager() (*transform.RecipeManager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	rm := transform.NewRecipeManager(cfg.RecipesDir)
	if err := rm.LoadRecipes(); err != nil {
		return nil, err
	}
	return rm, nil
}

func runRecipeSave(args []string) int {
	fs := flag.NewFlagSet("recipe save", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	name := fs.String("name", "", "recipe name")
	description := fs.String("description", "", "recipe description")
	tags := fs.String("tags", "", "comma-separated tags")
	specFlag := fs.String("spec", "", "pipeline spec as JSON, or a path to a JSON file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if strings.TrimSpace(*name) == "" {
		fmt.Fprintln(os.Stderr, "--name flag is required")
		return 2
	}
	if *specFlag == "" {
		fmt.Fprintln(os.Stderr, "--spec flag is required")
		return 2
	}

	specText, _, err := iotext.ResolveInput(*specFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read pipeline spec: %v\n", err)
		return 1
	}
	var pipeline transform.Pipeline
	if err := json.Unmarshal([]byte(specText), &pipeline); err != nil {
		fmt.Fprintf(os.Stderr, "parse pipeline spec: %v\n", err)
		return 2
	}
	if len(pipeline.Operations) == 0 {
		fmt.Fprintln(os.Stderr, "pipeline spec has no operations")
		return 2
	}
	pipeline.Reversible = true

	rm, err := openRecipeManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	recipe := &transform.Recipe{
		Name:        strings.TrimSpace(*name),
		Description: strings.TrimSpace(*description),
		Tags:        splitTags(*tags),
		Pipeline:    pipeline,
	}
	if err := rm.SaveRecipe(recipe); err != nil {
		fmt.Fprintf(os.Stderr, "save recipe: %v\n", err)
		return 1
	}

	logger := auditLogger()
	defer logger.Close()
	_ = logger.Emit(logging.AuditEvent{
		EventType: logging.EventRecipeSaved,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"name": recipe.Name},
	})

	fmt.Fprintf(os.Stdout, "saved recipe %s\n", recipe.Name)
	return 0
}

func runRecipeList(args []string) int {
	fs := flag.NewFlagSet("recipe list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	search := fs.String("search", "", "filter recipes by name, description, or tag")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rm, err := openRecipeManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	recipes := rm.ListRecipes()
	if strings.TrimSpace(*search) != "" {
		recipes = rm.SearchRecipes(*search)
	}
	if len(recipes) == 0 {
		fmt.Fprintln(os.Stdout, "no recipes found")
		return 0
	}
	for _, recipe := range recipes {
		line := recipe.Name
		if recipe.Description != "" {
			line += " - " + recipe.Description
		}
		if len(recipe.Tags) > 0 {
			line += " [" + strings.Join(recipe.Tags, ", ") + "]"
		}
		fmt.Fprintln(os.Stdout, line)
	}
	return 0
}

func runRecipeShow(args []string) int {
	fs := flag.NewFlagSet("recipe show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "recipe show takes exactly one recipe name")
		return 2
	}

	rm, err := openRecipeManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	recipe, exists := rm.GetRecipe(fs.Arg(0))
	if !exists {
		fmt.Fprintf(os.Stderr, "recipe %q not found\n", fs.Arg(0))
		return 1
	}
	return printJSON(recipe)
}

func runRecipeDelete(args []string) int {
	fs := flag.NewFlagSet("recipe delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "recipe delete takes exactly one recipe name")
		return 2
	}
	name := fs.Arg(0)

	rm, err := openRecipeManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if _, exists := rm.GetRecipe(name); !exists {
		fmt.Fprintf(os.Stderr, "recipe %q not found\n", name)
		return 1
	}
	if err := rm.DeleteRecipe(name); err != nil {
		fmt.Fprintf(os.Stderr, "delete recipe: %v\n", err)
		return 1
	}

	logger := auditLogger()
	defer logger.Close()
	_ = logger.Emit(logging.AuditEvent{
		EventType: logging.EventRecipeDeleted,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"name": name},
	})

	fmt.Fprintf(os.Stdout, "deleted recipe %s\n", name)
	return 0
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
