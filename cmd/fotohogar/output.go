package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"fotohogar/internal/fotohogar"
	"fotohogar/internal/model"
)

// render prints data with human, or with --json the {ok, data, message}
// envelope. err is returned either way so the exit status reflects it.
func render[T any](data T, err error, human func(T)) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(fotohogar.NewResult(data, err)); encErr != nil {
			return fmt.Errorf("encoding result: %w", encErr)
		}
		return err
	}
	if err != nil {
		return err
	}
	human(data)
	return nil
}

func printUser(u *model.User) {
	fmt.Printf("%-4s %-24s %s\n", u.ID, u.FullName(), u.Email)
}

func printAlbum(a *model.Album) {
	fmt.Printf("%-4s %-32s %3d photo(s)  %s\n", a.ID, a.Title, a.PhotoCount, dateRange(a))
}

func dateRange(a *model.Album) string {
	switch {
	case a.StartDate == "" && a.EndDate == "":
		return ""
	case a.StartDate == a.EndDate || a.EndDate == "":
		return a.StartDate
	case a.StartDate == "":
		return a.EndDate
	default:
		return a.StartDate + " .. " + a.EndDate
	}
}

func printPhoto(p *model.Photo) {
	url := p.URL
	if strings.HasPrefix(url, "data:") {
		url = url[:strings.IndexByte(url, ',')+1] + "..."
	}
	fmt.Printf("%-38s %s  %-20s %s\n", p.ID, p.UploadedAt.Format("2006-01-02 15:04"), p.Caption, url)
}
