package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/starius/restbind"
	"github.com/starius/restbind/debugclient"
	"github.com/starius/restbind/example"
	"github.com/starius/restbind/placeholder"
)

func main() {
	config := flag.String("config", "", "YAML file with properties, e.g. posts.url")
	debug := flag.Bool("debug", false, "Dump requests and responses to stderr")
	flag.Parse()

	sources := placeholder.Chain{placeholder.Env(nil)}
	if *config != "" {
		props, err := placeholder.LoadYAML(*config)
		if err != nil {
			panic(err)
		}
		sources = append(sources, props)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	opts := []restbind.Option{
		restbind.WithResolver(placeholder.New(sources)),
		restbind.Logger(logger),
		restbind.ValidateBody(nil),
		restbind.RequestIDHeader("X-Request-Id"),
	}
	if *debug {
		debugClient, err := debugclient.New(restbind.NewDefaultHttpClient(), os.Stderr)
		if err != nil {
			panic(err)
		}
		opts = append(opts, restbind.CustomClient(debugClient))
	}

	client, err := example.NewPostsAPIClient(opts...)
	if err != nil {
		panic(err)
	}
	defer client.Close()

	comments, err := example.NewCommentsAPIClient(opts...)
	if err != nil {
		panic(err)
	}
	defer comments.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	post, err := client.GetPost(ctx, 1)
	if err != nil {
		panic(err)
	}
	fmt.Printf("post %d: %s\n", post.ID, post.Title)

	posts, err := client.ListPosts(ctx, example.ListOptions{Page: 1, Limit: 3})
	if err != nil {
		panic(err)
	}
	fmt.Printf("first page: %d posts\n", len(posts))

	created, err := client.CreatePost(ctx, &example.Post{
		UserID: 1,
		Title:  "restbind",
		Body:   "hello",
	})
	if err != nil {
		panic(err)
	}
	fmt.Printf("created post %d\n", created.ID)

	if _, err := client.CreatePost(ctx, &example.Post{UserID: 1}); err == nil {
		panic("expected validation error")
	}

	list, err := comments.ListComments(ctx, post.ID)
	if err != nil {
		panic(err)
	}
	fmt.Printf("post %d has %d comments\n", post.ID, len(list))
}
