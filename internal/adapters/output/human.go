package output

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mikey-austin/jellydesk/internal/jellyfin"
)

// HumanPrinter prints human-readable tables.
type HumanPrinter struct{}

// PlaylistItemsOutput pairs a playlist id with its ordered item ids.
type PlaylistItemsOutput struct {
	PlaylistID string   `json:"playlistId"`
	ItemIDs    []string `json:"itemIds"`
}

// Print renders human output.
func (HumanPrinter) Print(v any) error {
	switch data := v.(type) {
	case []jellyfin.View:
		return printViews(data)
	case *jellyfin.Snapshot:
		return printSnapshot(data)
	case []jellyfin.Playlist:
		return printPlaylists(data)
	case PlaylistItemsOutput:
		return printPlaylistItems(data)
	case string:
		_, err := fmt.Fprintln(os.Stdout, data)
		return err
	default:
		_, err := fmt.Fprintln(os.Stdout, "ok")
		return err
	}
}

func printViews(views []jellyfin.View) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "NAME\tTYPE\tID"); err != nil {
		return err
	}
	for _, view := range views {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", view.Name, view.CollectionType, view.ID); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printSnapshot(snap *jellyfin.Snapshot) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "TITLE\tALBUM\tARTIST\tLENGTH\tID"); err != nil {
		return err
	}
	for _, track := range snap.Tracks {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			track.Name,
			track.Album,
			strings.Join(track.Artists, ", "),
			formatDuration(track.Duration()),
			track.ID); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(os.Stdout, "%d of %d tracks\n", len(snap.Tracks), snap.TotalRecordCount)
	return err
}

func printPlaylists(playlists []jellyfin.Playlist) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "NAME\tTRACKS\tID"); err != nil {
		return err
	}
	for _, playlist := range playlists {
		if _, err := fmt.Fprintf(tw, "%s\t%d\t%s\n", playlist.Name, playlist.ChildCount, playlist.ID); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printPlaylistItems(out PlaylistItemsOutput) error {
	for i, id := range out.ItemIDs {
		if _, err := fmt.Fprintf(os.Stdout, "%d\t%s\n", i, id); err != nil {
			return err
		}
	}
	return nil
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	total := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
