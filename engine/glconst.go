package engine

// OpenGL enums used by the renderer. Values match the GL headers so a Device
// backed by a real context can pass them through unchanged.
const (
	FALSE = 0
	TRUE  = 1

	TRIANGLES = 0x0004

	ARRAY_BUFFER         = 0x8892
	ELEMENT_ARRAY_BUFFER = 0x8893
	STATIC_DRAW          = 0x88E4

	UNSIGNED_BYTE = 0x1401
	UNSIGNED_INT  = 0x1405
	FLOAT         = 0x1406

	VERTEX_SHADER   = 0x8B31
	FRAGMENT_SHADER = 0x8B30
	COMPILE_STATUS  = 0x8B81
	LINK_STATUS     = 0x8B82

	TEXTURE_2D           = 0x0DE1
	TEXTURE0             = 0x84C0
	TEXTURE_MAG_FILTER   = 0x2800
	TEXTURE_MIN_FILTER   = 0x2801
	TEXTURE_WRAP_S       = 0x2802
	TEXTURE_WRAP_T       = 0x2803
	REPEAT               = 0x2901
	LINEAR               = 0x2601
	LINEAR_MIPMAP_LINEAR = 0x2703
	RGB                  = 0x1907
	RGBA                 = 0x1908
	UNPACK_ALIGNMENT     = 0x0CF5
	PACK_ALIGNMENT       = 0x0D05

	DEPTH_TEST = 0x0B71
	LESS       = 0x0201
	CULL_FACE  = 0x0B44
	BACK       = 0x0405
	CCW        = 0x0901

	COLOR_BUFFER_BIT = 0x4000
	DEPTH_BUFFER_BIT = 0x0100

	VERSION = 0x1F02
)
