package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fotohogar/internal/app"
	"fotohogar/internal/model"
)

// album command
var albumCmd = &cobra.Command{
	Use:   "album",
	Short: "Manage albums",
}

var albumListCmd = &cobra.Command{
	Use:   "list",
	Short: "List albums",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ListAlbums")
		if err != nil {
			return err
		}
		defer a.Close()

		albums, err := a.ListAlbums(cmd.Context())
		return render(albums, err, func(albums []*model.Album) {
			if len(albums) == 0 {
				fmt.Println("No albums yet.")
				return
			}
			for _, al := range albums {
				printAlbum(al)
			}
		})
	},
}

var albumShowCmd = &cobra.Command{
	Use:   "show ALBUM_ID",
	Short: "Show an album with its members and photos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ShowAlbum")
		if err != nil {
			return err
		}
		defer a.Close()

		detail, err := a.ShowAlbum(cmd.Context(), args[0])
		return render(detail, err, func(d *app.AlbumDetail) {
			al := d.Album
			fmt.Printf("%s\n%s\n\n", al.Title, al.Description)
			fmt.Printf("Created:  %s\n", al.CreatedAt.Format("2006-01-02"))
			if r := dateRange(al); r != "" {
				fmt.Printf("Dates:    %s\n", r)
			}
			fmt.Printf("Photos:   %d\n\n", al.PhotoCount)

			fmt.Println("Members:")
			for _, u := range d.Members {
				printUser(u)
			}
			fmt.Println()

			if len(d.Photos) == 0 {
				fmt.Println("No photos yet.")
				return
			}
			fmt.Println("Photos:")
			for _, p := range d.Photos {
				printPhoto(p)
			}
		})
	},
}

var albumCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an album",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		cover, _ := cmd.Flags().GetString("cover")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		members, _ := cmd.Flags().GetStringSlice("member")

		a, err := newApp(cmd, "CreateAlbum")
		if err != nil {
			return err
		}
		defer a.Close()

		album, err := a.CreateAlbum(cmd.Context(), model.NewAlbum{
			Title:       title,
			Description: description,
			CoverImage:  cover,
			Members:     members,
			StartDate:   start,
			EndDate:     end,
		})
		return render(album, err, func(al *model.Album) {
			fmt.Printf("Created album %s (%s)\n", al.Title, al.ID)
		})
	},
}

var albumEditCmd = &cobra.Command{
	Use:   "edit ALBUM_ID",
	Short: "Edit album fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch model.AlbumPatch
		for flag, field := range map[string]**string{
			"title":       &patch.Title,
			"description": &patch.Description,
			"cover":       &patch.CoverImage,
			"start":       &patch.StartDate,
			"end":         &patch.EndDate,
		} {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetString(flag)
				*field = &v
			}
		}

		a, err := newApp(cmd, "EditAlbum")
		if err != nil {
			return err
		}
		defer a.Close()

		album, err := a.EditAlbum(cmd.Context(), args[0], patch)
		return render(album, err, func(al *model.Album) {
			fmt.Printf("Updated album %s (%s)\n", al.Title, al.ID)
		})
	},
}

// member command
var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage album members",
}

var memberAddCmd = &cobra.Command{
	Use:   "add ALBUM_ID EMAIL",
	Short: "Add a member by email",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "AddMember")
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.AddMember(cmd.Context(), args[0], args[1])
		return render(user, err, func(u *model.User) {
			fmt.Printf("Added %s to album %s\n", u.FullName(), args[0])
		})
	},
}

var memberRemoveCmd = &cobra.Command{
	Use:   "remove ALBUM_ID USER_ID",
	Short: "Remove a member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "RemoveMember")
		if err != nil {
			return err
		}
		defer a.Close()

		err = a.RemoveMember(cmd.Context(), args[0], args[1])
		return render(true, err, func(bool) {
			fmt.Printf("Removed user %s from album %s\n", args[1], args[0])
		})
	},
}

// photo command
var photoCmd = &cobra.Command{
	Use:   "photo",
	Short: "Manage photos",
}

var photoUploadCmd = &cobra.Command{
	Use:   "upload ALBUM_ID FILE_OR_URL",
	Short: "Upload a photo from a local image or a URL",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		caption, _ := cmd.Flags().GetString("caption")

		a, err := newApp(cmd, "UploadPhoto")
		if err != nil {
			return err
		}
		defer a.Close()

		photo, err := a.UploadPhoto(cmd.Context(), args[0], args[1], caption)
		return render(photo, err, func(p *model.Photo) {
			fmt.Printf("Uploaded photo %s\n", p.ID)
		})
	},
}

var photoDeleteCmd = &cobra.Command{
	Use:   "delete ALBUM_ID PHOTO_ID",
	Short: "Delete a photo",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "DeletePhoto")
		if err != nil {
			return err
		}
		defer a.Close()

		err = a.DeletePhoto(cmd.Context(), args[0], args[1])
		return render(true, err, func(bool) {
			fmt.Printf("Deleted photo %s\n", args[1])
		})
	},
}
