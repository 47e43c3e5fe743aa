// Package sink writes resolved layouts to SVG and JSON.
//
// Both renderers take the boxes produced by [geometry.Resolve] and draw
// them in the order given. SVG output shades spaces by depth, dashes the
// outline of a space that is being resized and, with [WithHandles], draws
// the drag strip of every resizable space. JSON output lists one object per
// space with its resolved rect, its handle and, optionally, its CSS rule.
//
//	boxes, _ := geometry.Resolve(root, spaces.Rect{W: 800, H: 600})
//	svg := sink.RenderSVG(boxes, sink.WithLabels(labels), sink.WithHandles())
//	data, err := sink.RenderJSON(boxes, sink.WithJSONViewport(800, 600))
//
// [geometry.Resolve]: github.com/BenJenkinson/react-spaces/pkg/geometry.Resolve
package sink
