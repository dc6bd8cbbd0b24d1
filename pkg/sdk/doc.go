// Package millsearch embeds the paper and board listing search engine in a
// Go program, without the HTTP server.
//
// Listings are read from PostgreSQL or SQLite. Result pages are cached in
// process by default, or in Redis.
//
//	client, err := millsearch.New(ctx,
//	    millsearch.WithSQLite("listings.db"),
//	    millsearch.WithMemoryCache(5*time.Minute),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	page, err := client.Search(ctx, millsearch.SearchParams{
//	    Query:  "ITC 120gsm",
//	    Brands: []string{"Cyber"},
//	})
//	for _, hit := range page.Hits {
//	    fmt.Println(hit.Description, hit.Score)
//	}
//
// Free text is split into terms and an optional grammage ("120gsm", or a
// bare number such as "250"). A listing matches when every term appears in
// its make, grade, brand or description and its grammage lies within the
// tolerance. Matches are ranked by a weighted relevance score, and facet
// counts describe the whole filtered set.
package millsearch
