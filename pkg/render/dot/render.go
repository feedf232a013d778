package dot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/sisugv/sisugv/pkg/render"
)

// RenderSVG renders DOT text to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderAs(ctx, dot, graphviz.SVG)
}

// RenderPNG renders DOT text to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderAs(ctx, dot, graphviz.PNG)
}

// Render renders DOT text to the given format.
func Render(ctx context.Context, dot string, f render.Format) ([]byte, error) {
	switch f {
	case render.FormatSVG:
		return RenderSVG(ctx, dot)
	case render.FormatPNG:
		return RenderPNG(ctx, dot)
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

func renderAs(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
