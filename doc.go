// Package pixui renders sprite-based user interfaces on the GPU and answers
// pixel-perfect cursor hit queries.
//
// Host code packs sprites (static images or horizontal animation strips)
// into a texture-array atlas with a Builder, then registers rectangular
// areas on a UI. Each area references a sprite by index; animated sprites
// advance automatically because the GPU resolves the atlas region per frame
// through a two-level table lookup keyed by the frame counter. A second
// render pass writes area ids into an integer texture, and a one-invocation
// compute kernel reads the texel under the cursor back to the host, so
// hover detection follows the sprite's opaque pixels rather than its
// bounding rectangle.
//
// Glyph text is supported as pre-placed coverage quads: rasterized glyph
// bitmaps go into a shared alpha atlas and render above the owning area's
// sprite, participating in hit testing with the area's id. Shaping and
// layout are the caller's concern.
//
// All GPU work goes through github.com/gogpu/wgpu's hal layer. A UI can run
// on its own device (Open) or share one with a host application
// (NewFromProvider).
package pixui
