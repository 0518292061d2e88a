package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	vone "github.com/HardM1nd/V-One-sub000"
)

var feedLimit int

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show the latest posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		if err := client.Start(ctx); err != nil {
			return err
		}

		posts, err := client.Feed(ctx, vone.FeedOptions{Limit: feedLimit})
		if err != nil {
			return err
		}
		for _, post := range posts {
			marker := " "
			if post.Liked {
				marker = "*"
			}
			fmt.Printf("%s %-16s %s (%d likes)\n", marker, post.Author, post.Text, post.Likes)
		}
		return nil
	},
}

var postCmd = &cobra.Command{
	Use:   "post <text>",
	Short: "Publish a new post",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		if err := client.Start(ctx); err != nil {
			return err
		}

		post, err := client.CreatePost(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("posted %s\n", post.ID)
		return nil
	},
}

func init() {
	feedCmd.Flags().IntVar(&feedLimit, "limit", 20, "maximum number of posts")
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(postCmd)
}
