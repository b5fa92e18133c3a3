package charref

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

var (
	containerSelector = cascadia.MustCompile("#" + ContainerID)
	tableSelector     = cascadia.MustCompile("table")
)

// Locate returns the outer HTML of the first table nested in the first
// element whose id is ContainerID.
func Locate(doc string) (string, error) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("failed to parse document: %w", err)
	}

	container := d.FindMatcher(containerSelector).First()
	if container.Length() == 0 {
		return "", ErrContainerNotFound
	}

	table := container.FindMatcher(tableSelector).First()
	if table.Length() == 0 {
		return "", ErrTableNotFound
	}

	out, err := goquery.OuterHtml(table)
	if err != nil {
		return "", fmt.Errorf("failed to render table: %w", err)
	}
	return out, nil
}
