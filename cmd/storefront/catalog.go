package main

import (
	"github.com/spf13/cobra"

	"github.com/target/storefront/internal/domain/model"
)

// Catalog commands work signed out; a restored session only adds the bearer token.

func newProductsCmd(a *app) *cobra.Command {
	var filter model.ProductFilter
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the product catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.storefront().Catalog.Products(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.printJSON(page)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&filter.Search, "search", "", "full-text search")
	fs.StringVar(&filter.Category, "category", "", "category slug")
	fs.StringVar(&filter.Brand, "brand", "", "brand slug")
	fs.StringVar(&filter.MinPrice, "min-price", "", "lowest price")
	fs.StringVar(&filter.MaxPrice, "max-price", "", "highest price")
	fs.IntVar(&filter.MinRating, "min-rating", 0, "lowest average rating")
	fs.BoolVar(&filter.InStock, "in-stock", false, "only products in stock")
	fs.BoolVar(&filter.Featured, "featured", false, "only featured products")
	fs.BoolVar(&filter.New, "new", false, "only new products")
	fs.StringVar(&filter.Ordering, "ordering", model.DefaultProductOrdering, "sort field, prefix with - for descending")
	fs.IntVar(&filter.Page, "page", 0, "page number")
	fs.IntVar(&filter.PageSize, "page-size", 0, "results per page")

	showCmd := &cobra.Command{
		Use:   "show SLUG",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := a.storefront().Catalog.Product(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printJSON(product)
		},
	}

	relatedCmd := &cobra.Command{
		Use:   "related SLUG",
		Short: "List products related to a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.storefront().Catalog.Related(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printJSON(products)
		},
	}

	cmd.AddCommand(showCmd, relatedCmd)
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	var params model.PageParams
	cmd := &cobra.Command{
		Use:   "categories [SLUG]",
		Short: "List categories, or the products of one category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := a.storefront().Catalog
			if len(args) == 1 {
				page, err := catalog.CategoryProducts(cmd.Context(), args[0], params)
				if err != nil {
					return err
				}
				return a.printJSON(page)
			}
			categories, err := catalog.Categories(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(categories)
		},
	}
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number of a category's products")
	cmd.Flags().IntVar(&params.PageSize, "page-size", 0, "results per page")
	return cmd
}

func newBrandsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "brands",
		Short: "List brands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			brands, err := a.storefront().Catalog.Brands(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(brands)
		},
	}
}

func newTagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List product tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tags, err := a.storefront().Catalog.Tags(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(tags)
		},
	}
}

func reviewFlags(cmd *cobra.Command, in *model.ReviewInput) {
	cmd.Flags().IntVar(&in.Rating, "rating", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&in.Title, "title", "", "review title")
	cmd.Flags().StringVar(&in.Comment, "comment", "", "review text")
}

func newReviewsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews SLUG",
		Short: "List or write product reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviews, err := a.storefront().Reviews.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printJSON(reviews)
		},
	}

	var add model.ReviewInput
	addCmd := &cobra.Command{
		Use:   "add SLUG",
		Short: "Review a product",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(a, func(cmd *cobra.Command, args []string) error {
			review, msg, err := a.storefront().Reviews.Create(cmd.Context(), args[0], add)
			if err != nil {
				return err
			}
			return a.printJSON(map[string]any{"message": msg, "review": review})
		}),
	}
	reviewFlags(addCmd, &add)

	var update model.ReviewInput
	updateCmd := &cobra.Command{
		Use:   "update REVIEW_ID",
		Short: "Rewrite one of your reviews",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(a, func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "review id")
			if err != nil {
				return err
			}
			review, err := a.storefront().Reviews.Update(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			return a.printJSON(review)
		}),
	}
	reviewFlags(updateCmd, &update)

	removeCmd := &cobra.Command{
		Use:   "remove REVIEW_ID",
		Short: "Delete one of your reviews",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(a, func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "review id")
			if err != nil {
				return err
			}
			return a.storefront().Reviews.Delete(cmd.Context(), id)
		}),
	}

	cmd.AddCommand(addCmd, updateCmd, removeCmd)
	return cmd
}
