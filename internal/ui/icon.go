package ui

// iconBytes is a 16x16 PNG used for the system tray icon.
var iconBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0xf3, 0xff, 0x61, 0x00, 0x00, 0x00,
	0x31, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0x60, 0x00, 0x02, 0xf9,
	0xfc, 0xee, 0xff, 0xe4, 0x60, 0x06, 0x4a, 0x34, 0xc3, 0x0d, 0xa1, 0x9a,
	0x01, 0xa4, 0x02, 0xac, 0x06, 0x10, 0x6b, 0xeb, 0x20, 0x36, 0x80, 0xe2,
	0x30, 0x18, 0x0d, 0x44, 0x0a, 0xc3, 0x60, 0xe0, 0xf2, 0x02, 0xa5, 0xd9,
	0x19, 0x00, 0x72, 0x4b, 0x81, 0x2f, 0x60, 0xdd, 0xe3, 0x27, 0x00, 0x00,
	0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}
