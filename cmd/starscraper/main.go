// Package main provides the starscraper CLI.
//
// starscraper downloads the Wikipedia brightest-stars and brown-dwarfs
// tables, cleans the brown-dwarf data, converts mass and radius to solar
// units and writes four CSV files, the last of which joins both tables by
// row position.
//
// Usage:
//
//	starscraper run
//	starscraper merge
//	starscraper tables <url>
//
// See --help for all available options.
package main

func main() {
	Execute()
}
