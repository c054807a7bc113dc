package cli

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/storyatlas/storyatlas/internal/client/archive"
	"github.com/storyatlas/storyatlas/internal/client/models"
)

// Entries reloads the archive and prints it, newest first.
func (a *App) Entries(ctx context.Context) error {
	next, applied := a.archive.LoadAll(ctx, a.archiveState)
	if !applied {
		return nil
	}
	a.archiveState = next

	if a.archiveState.Status != "" {
		fmt.Fprintln(a.out, a.archiveState.Status)
	}
	if len(a.archiveState.Entries) == 0 {
		fmt.Fprintln(a.out, "The archive is empty.")
		return nil
	}
	for _, e := range a.archiveState.Entries {
		fmt.Fprintf(a.out, "%s  [%s] %s — %s (%d media)\n", e.ID, e.Type, e.Title, e.Meta, len(e.Media))
	}
	return nil
}

// AddEntry prompts for the entry fields and submits a create.
func (a *App) AddEntry(ctx context.Context) error {
	form, err := a.promptForm(models.EntryForm{})
	if err != nil {
		return err
	}
	a.archiveState.Form = form
	a.archiveState.EditingID = ""
	return a.submit(ctx)
}

// EditEntry loads an entry into the form, prompts with current values as
// defaults, and submits an update.
func (a *App) EditEntry(ctx context.Context, id string) error {
	var found *models.Entry
	for i := range a.archiveState.Entries {
		if a.archiveState.Entries[i].ID == id {
			found = &a.archiveState.Entries[i]
			break
		}
	}
	if found == nil {
		fmt.Fprintf(a.out, "No entry %s loaded; run 'entries' first.\n", id)
		return nil
	}

	a.archiveState = a.archive.StartEdit(a.archiveState, *found)
	form, err := a.promptForm(a.archiveState.Form)
	if err != nil {
		return err
	}
	a.archiveState.Form = form
	return a.submit(ctx)
}

// DeleteEntry asks for confirmation and dispatches the delete.
func (a *App) DeleteEntry(ctx context.Context, id string) error {
	answer, err := GetSimpleText(a.reader, fmt.Sprintf("Delete entry %s? (y/N)", id), a.out)
	if err != nil {
		return err
	}
	confirmed := answer == "y" || answer == "Y"

	next, applied := a.archive.DeleteEntry(ctx, a.archiveState, id, confirmed)
	if applied {
		a.archiveState = next
		fmt.Fprintln(a.out, a.archiveState.Status)
	}
	return nil
}

// Attach queues a local file as a media preview for the next save.
func (a *App) Attach(ctx context.Context, path string) error {
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	file := archive.File{
		Name: filepath.Base(path),
		Type: contentType,
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
	a.archiveState = a.archive.QueueFiles(ctx, a.archiveState, []archive.File{file})

	if a.archiveState.Status != "" {
		fmt.Fprintln(a.out, a.archiveState.Status)
	}
	fmt.Fprintf(a.out, "%d file(s) queued for the next save.\n", len(a.archiveState.Previews))
	return nil
}

// ToggleMedia marks or unmarks a stored asset for removal on next save.
func (a *App) ToggleMedia(url string) {
	a.archiveState = a.archive.ToggleMediaRemoval(a.archiveState, url)
	fmt.Fprintf(a.out, "%d asset(s) marked for removal.\n", len(a.archiveState.RemovedMediaKeys))
}

func (a *App) submit(ctx context.Context) error {
	next, applied := a.archive.SubmitEntry(ctx, a.archiveState)
	if applied {
		a.archiveState = next
		fmt.Fprintln(a.out, a.archiveState.Status)
	}
	return nil
}

func (a *App) promptForm(current models.EntryForm) (models.EntryForm, error) {
	var form models.EntryForm
	var err error

	if form.Title, err = GetTextWithDefault(a.reader, "Title", current.Title, a.out); err != nil {
		return form, err
	}
	if form.Type, err = GetTextWithDefault(a.reader, "Type (Photo/Essay/Link/Artifact)", current.Type, a.out); err != nil {
		return form, err
	}
	if form.Description, err = GetTextWithDefault(a.reader, "Description", current.Description, a.out); err != nil {
		return form, err
	}
	if form.Meta, err = GetTextWithDefault(a.reader, "Context (place, year)", current.Meta, a.out); err != nil {
		return form, err
	}
	if form.Href, err = GetTextWithDefault(a.reader, "Link (optional)", current.Href, a.out); err != nil {
		return form, err
	}
	return form, nil
}
