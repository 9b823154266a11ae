package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"postviewer/app/client"
	"postviewer/app/config"
	"postviewer/app/models"
	"postviewer/app/viewer"

	"go.uber.org/zap"
)

// Show renders one post, and optionally its comments, as plain text.
func Show(ctx context.Context, cfg *config.Config, logger *zap.Logger, id string, withComments bool, w io.Writer) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	api, err := newAPIClient(cfg)
	if err != nil {
		return err
	}
	return show(ctx, api, cfg.ViewerOptions(), loc, logger, models.ID(id), withComments, w)
}

func show(ctx context.Context, api client.API, opts viewer.Options, loc *time.Location, logger *zap.Logger, id models.ID, withComments bool, w io.Writer) error {
	if !withComments {
		v := viewer.NewPostViewer(api, logger, opts)
		v.Navigate(ctx, id)
		if err := v.Wait(ctx); err != nil {
			return err
		}
		view := v.View()
		if view.State != viewer.StateLoaded {
			return writeState(w, view.State)
		}
		fmt.Fprintf(w, "Writing\nPost ID: %s\n\n%s\n\n%s\n", view.ID, view.Post.Title, view.Post.Content)
		return nil
	}

	v := viewer.NewPostWithCommentsViewer(api, logger, opts)
	v.Navigate(ctx, id)
	if err := v.Wait(ctx); err != nil {
		return err
	}
	view := v.View()
	if view.State != viewer.StateLoaded {
		return writeState(w, view.State)
	}

	post := view.Post
	fmt.Fprintf(w, "Title : %s\nAuthor : %s\nDate : %s\n\nContent\n%s\n\nComments\n",
		post.Title, post.Nickname, post.DisplayDate(loc), post.Content)
	if len(view.Comments) == 0 {
		fmt.Fprintln(w, "no comments")
		return nil
	}
	for _, c := range view.Comments {
		fmt.Fprintf(w, "%s (%s): %s\n", c.Nickname, c.DisplayDate(loc), c.Content)
	}
	return nil
}

// writeState prints the placeholder for a post that is not loaded. A failed
// state is also reported as an error so the command exits non-zero.
func writeState(w io.Writer, state viewer.State) error {
	if state == viewer.StateFailed {
		fmt.Fprintln(w, "The post could not be loaded.")
		return fmt.Errorf("post could not be loaded")
	}
	fmt.Fprintln(w, "Loading...")
	return nil
}
