package overlay

import "github.com/inkyblackness/imgui-go/v4"

// Backend uploads ImGui textures and draws ImGui draw data.
type Backend interface {
	// CreateTexture uploads an RGBA8 image that ImGui can reference.
	//
	// Parameters:
	//   - width: image width in pixels
	//   - height: image height in pixels
	//   - rgba: width*height*4 bytes, row-major
	//
	// Returns:
	//   - imgui.TextureID: the id to hand to imgui.Image or the font atlas
	//   - error: an error if the texture could not be created
	CreateTexture(width, height int, rgba []byte) (imgui.TextureID, error)

	// RenderDrawData draws a finished ImGui frame with blending and scissoring on and face
	// culling and depth testing off.
	//
	// Parameters:
	//   - drawData: the data returned by imgui.RenderedDrawData
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	RenderDrawData(drawData imgui.DrawData, width, height int)

	// Release frees every texture and buffer held by the backend.
	Release()
}
