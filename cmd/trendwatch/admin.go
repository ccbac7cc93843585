package main

import (
	"fmt"
	"os"
)

func runAdd(keywords []string) {
	if len(keywords) == 0 {
		fmt.Fprintln(os.Stderr, "trendwatch add: at least one keyword required")
		os.Exit(1)
	}

	_, st := openStore()
	defer st.Close()

	for _, kw := range keywords {
		id, err := st.UpsertKeyword(kw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "trendwatch add: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("tracking %q (%s)\n", kw, id)
	}
}

func runList() {
	_, st := openStore()
	defer st.Close()

	keywords, err := st.Keywords()
	if err != nil {
		fmt.Fprintf(os.Stderr, "trendwatch list: %v\n", err)
		os.Exit(1)
	}
	if len(keywords) == 0 {
		fmt.Println("No keywords tracked. Use 'trendwatch add <keyword>'.")
		return
	}

	for _, k := range keywords {
		seen := "never refreshed"
		if !k.LastSeen.IsZero() {
			seen = "last seen " + k.LastSeen.Format("2006-01-02 15:04")
		}
		fmt.Printf("  %-30s %s\n", k.Keyword, seen)
	}
}

func runStats() {
	cfg, st := openStore()
	defer st.Close()

	keywords, _ := st.KeywordCount()
	points, _ := st.DataPointCount()

	fmt.Printf("Database:       %s\n", cfg.DBPath())
	fmt.Printf("Keywords:       %d\n", keywords)
	fmt.Printf("Data points:    %d\n", points)
	if keywords > 0 {
		fmt.Printf("Points/keyword: %.1f\n", float64(points)/float64(keywords))
	}
	fmt.Printf("Region:         %s\n", regionLabel(cfg.Provider.Region))
	fmt.Printf("Provider:       %s\n", cfg.Provider.BaseURL)
}

func regionLabel(region string) string {
	if region == "" {
		return "worldwide"
	}
	return region
}
