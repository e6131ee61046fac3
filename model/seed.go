package model

// SeedPlaylists returns the built-in playlists.
func SeedPlaylists() []*Playlist {
	return []*Playlist{
		{ID: "p1", Name: "Favorites", ThumbnailURL: "https://images.unsplash.com/photo-1494232410401-ad00d5433cfa?q=80&w=3270&auto=format&fit=crop"},
		{ID: "p2", Name: "Music", ThumbnailURL: "https://images.unsplash.com/photo-1511671782779-c97d3d27a1d4?q=80&w=2970&auto=format&fit=crop"},
		{ID: "p3", Name: "Tutorials", ThumbnailURL: "https://images.unsplash.com/photo-1499750310107-5fef28a66643?q=80&w=2970&auto=format&fit=crop"},
		{ID: "p4", Name: "Travel", ThumbnailURL: "https://images.unsplash.com/photo-1503220317375-aaad61436b1b?q=80&w=3270&auto=format&fit=crop"},
	}
}

// SeedVideos returns the sample catalog used when no mirrored catalog exists.
func SeedVideos() []*Video {
	const sampleURL = "https://sample-videos.com/video123/mp4/720/big_buck_bunny_720p_1mb.mp4"
	return []*Video{
		{
			ID:           "v1",
			Title:        "Beautiful Sunset Time Lapse",
			Description:  "A breathtaking time lapse of a sunset over the ocean.",
			ThumbnailURL: "https://images.unsplash.com/photo-1616036740257-9449ea1f6605?q=80&w=3386&auto=format&fit=crop",
			VideoURL:     sampleURL,
			SourceType:   SourceDirectURL,
			Duration:     187,
			DateAdded:    "2023-11-15",
			Playlists:    []string{"p1", "p4"},
			Views:        142,
		},
		{
			ID:           "v2",
			Title:        "Guitar Tutorial for Beginners",
			Description:  "Learn the basics of playing guitar with this comprehensive tutorial.",
			ThumbnailURL: "https://images.unsplash.com/photo-1511379938547-c1f69419868d?q=80&w=3270&auto=format&fit=crop",
			VideoURL:     sampleURL,
			SourceType:   SourceDirectURL,
			Duration:     654,
			DateAdded:    "2023-10-28",
			Playlists:    []string{"p3"},
			Views:        89,
		},
		{
			ID:           "v3",
			Title:        "Concert Highlights: The Weeknd",
			Description:  "Watch the best moments from The Weeknd's latest concert tour.",
			ThumbnailURL: "https://images.unsplash.com/photo-1540039155733-5bb30b53aa14?q=80&w=3174&auto=format&fit=crop",
			VideoURL:     sampleURL,
			SourceType:   SourceDirectURL,
			Duration:     421,
			DateAdded:    "2023-12-05",
			Playlists:    []string{"p1", "p2"},
			Views:        278,
		},
		{
			ID:           "v4",
			Title:        "New York City Travel Guide",
			Description:  "A comprehensive guide to visiting New York City on a budget.",
			ThumbnailURL: "https://images.unsplash.com/photo-1496442226666-8d4d0e62e6e9?q=80&w=3270&auto=format&fit=crop",
			VideoURL:     sampleURL,
			SourceType:   SourceDirectURL,
			Duration:     842,
			DateAdded:    "2023-09-17",
			Playlists:    []string{"p4"},
			Views:        156,
		},
		{
			ID:           "v5",
			Title:        "Piano Sonata No. 14 \"Moonlight\"",
			Description:  "Beethoven's Piano Sonata No. 14, performed by Lang Lang.",
			ThumbnailURL: "https://images.unsplash.com/photo-1520523839897-bd0b52f945a0?q=80&w=3270&auto=format&fit=crop",
			VideoURL:     sampleURL,
			SourceType:   SourceDirectURL,
			Duration:     975,
			DateAdded:    "2023-11-30",
			Playlists:    []string{"p1", "p2"},
			Views:        312,
		},
		{
			ID:           "v6",
			Title:        "React Hooks Explained",
			Description:  "A detailed explanation of React Hooks with practical examples.",
			ThumbnailURL: "https://images.unsplash.com/photo-1555066931-4365d14bab8c?q=80&w=3270&auto=format&fit=crop",
			VideoURL:     sampleURL,
			SourceType:   SourceDirectURL,
			Duration:     728,
			DateAdded:    "2023-10-10",
			Playlists:    []string{"p3"},
			Views:        201,
		},
		{
			ID:           "v7",
			Title:        "Tokyo Street Food Tour",
			Description:  "Exploring the best street food in Tokyo, Japan.",
			ThumbnailURL: "https://images.unsplash.com/photo-1503899036084-c55cdd92da26?q=80&w=3387&auto=format&fit=crop",
			VideoURL:     sampleURL,
			SourceType:   SourceDirectURL,
			Duration:     534,
			DateAdded:    "2023-12-15",
			Playlists:    []string{"p1", "p4"},
			Views:        178,
		},
		{
			ID:           "v8",
			Title:        "Florence + The Machine Live",
			Description:  "Full concert of Florence + The Machine at Glastonbury 2022.",
			ThumbnailURL: "https://images.unsplash.com/photo-1501386761578-eac5c94b800a?q=80&w=3270&auto=format&fit=crop",
			VideoURL:     sampleURL,
			SourceType:   SourceDirectURL,
			Duration:     1254,
			DateAdded:    "2023-08-22",
			Playlists:    []string{"p2"},
			Views:        289,
		},
		{
			ID:           "v9",
			Title:        "Advanced CSS Techniques",
			Description:  "Learn advanced CSS techniques for modern web design.",
			ThumbnailURL: "https://images.unsplash.com/photo-1621839673705-6617adf9e890?q=80&w=3432&auto=format&fit=crop",
			VideoURL:     sampleURL,
			SourceType:   SourceDirectURL,
			Duration:     495,
			DateAdded:    "2023-11-05",
			Playlists:    []string{"p3"},
			Views:        134,
		},
		{
			ID:           "v10",
			Title:        "Northern Lights Time Lapse",
			Description:  "Beautiful time lapse footage of the Northern Lights in Norway.",
			ThumbnailURL: "https://images.unsplash.com/photo-1483347756197-71ef80e95f73?q=80&w=3270&auto=format&fit=crop",
			VideoURL:     sampleURL,
			SourceType:   SourceDirectURL,
			Duration:     267,
			DateAdded:    "2023-12-28",
			Playlists:    []string{"p1"},
			Views:        324,
		},
	}
}
