package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/adarsh-naik-2004/bats-admin/internal/api"
	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

func newCategoriesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage catalog categories",
	}
	cmd.AddCommand(
		newCategoriesListCommand(a),
		newCategoriesGetCommand(a),
		newCategoriesCreateCommand(a),
		newCategoriesUpdateCommand(a),
		newCategoriesDeleteCommand(a),
	)
	return cmd
}

func newCategoriesListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}

			categories, err := a.client.Categories.List(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(categories)
			}

			rows := make([][]string, 0, len(categories))
			for _, cat := range categories {
				rows = append(rows, []string{cat.ID, cat.Name, fmt.Sprintf("%d", len(cat.PriceConfiguration)), fmt.Sprintf("%d", len(cat.Attributes))})
			}
			printTable([]string{"ID", "NAME", "PRICE DIMENSIONS", "ATTRIBUTES"}, rows)
			return nil
		},
	}
}

func newCategoriesGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}
			cat, err := a.client.Categories.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cat)
		},
	}
}

func newCategoriesCreateCommand(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}

			var payload domain.Category
			if err := readJSONFile(file, &payload); err != nil {
				return err
			}
			cat, err := a.client.Categories.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cat)
			}
			fmt.Printf("Created category %s (%s)\n", cat.Name, cat.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file with the category definition")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newCategoriesUpdateCommand(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}

			var payload domain.Category
			if err := readJSONFile(file, &payload); err != nil {
				return err
			}
			cat, err := a.client.Categories.Update(cmd.Context(), args[0], payload)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cat)
			}
			fmt.Printf("Updated category %s\n", cat.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file with the category definition")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newCategoriesDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.client.Categories.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted category %s\n", args[0])
			return nil
		},
	}
}

func newProductsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage products",
	}
	cmd.AddCommand(
		newProductsListCommand(a),
		newProductsCreateCommand(a),
		newProductsUpdateCommand(a),
	)
	return cmd
}

func newProductsListCommand(a *app) *cobra.Command {
	var (
		filter  api.ProductFilter
		publish bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			filter.StoreID = a.storeScope(sess, filter.StoreID)
			if cmd.Flags().Changed("published") {
				filter.IsPublish = &publish
			}

			products, err := a.client.Products.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(products)
			}

			rows := make([][]string, 0, len(products.Data))
			for _, p := range products.Data {
				rows = append(rows, []string{p.ID, p.Name, p.StoreID, yesNo(p.IsPublish), formatTime(p.CreatedAt)})
			}
			printTable([]string{"ID", "NAME", "STORE", "PUBLISHED", "CREATED"}, rows)
			fmt.Printf("%d of %d products\n", len(products.Data), products.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Q, "q", "", "search term")
	cmd.Flags().StringVar(&filter.CategoryID, "category", "", "filter by category id")
	cmd.Flags().StringVar(&filter.StoreID, "store", "", "filter by store id")
	cmd.Flags().BoolVar(&publish, "published", false, "filter by publish state")
	cmd.Flags().IntVar(&filter.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&filter.Limit, "limit", 10, "page size")
	return cmd
}

// productFile is the on-disk JSON shape for product create/update.
type productFile struct {
	Name               string                         `json:"name"`
	Description        string                         `json:"description"`
	CategoryID         string                         `json:"categoryId"`
	StoreID            string                         `json:"storeId"`
	IsPublish          bool                           `json:"isPublish"`
	PriceConfiguration map[string]domain.ProductPrice `json:"priceConfiguration"`
	Attributes         []domain.ProductAttribute      `json:"attributes"`
}

func loadProductPayload(file, image string) (domain.CreateProduct, error) {
	var pf productFile
	if err := readJSONFile(file, &pf); err != nil {
		return domain.CreateProduct{}, err
	}

	payload := domain.CreateProduct{
		Name:               pf.Name,
		Description:        pf.Description,
		CategoryID:         pf.CategoryID,
		StoreID:            pf.StoreID,
		IsPublish:          pf.IsPublish,
		PriceConfiguration: pf.PriceConfiguration,
		Attributes:         pf.Attributes,
	}

	if image != "" {
		data, err := os.ReadFile(image)
		if err != nil {
			return domain.CreateProduct{}, fmt.Errorf("failed to read image: %w", err)
		}
		payload.Image = data
		payload.ImageName = filepath.Base(image)
	}
	return payload, nil
}

func newProductsCreateCommand(a *app) *cobra.Command {
	var file, image string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}

			payload, err := loadProductPayload(file, image)
			if err != nil {
				return err
			}
			product, err := a.client.Products.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(product)
			}
			fmt.Printf("Created product %s (%s)\n", product.Name, product.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file with the product definition")
	cmd.Flags().StringVar(&image, "image", "", "image file to upload")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newProductsUpdateCommand(a *app) *cobra.Command {
	var file, image string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}

			payload, err := loadProductPayload(file, image)
			if err != nil {
				return err
			}
			product, err := a.client.Products.Update(cmd.Context(), args[0], payload)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(product)
			}
			fmt.Printf("Updated product %s\n", product.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file with the product definition")
	cmd.Flags().StringVar(&image, "image", "", "image file to upload")
	cmd.MarkFlagRequired("file")
	return cmd
}

func readJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s is not valid JSON: %w", path, err)
	}
	return nil
}
