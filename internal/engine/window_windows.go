//go:build windows

package engine

import (
	"syscall"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	dwmapi                    = syscall.NewLazyDLL("dwmapi.dll")
	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
)

const (
	DWMWA_USE_IMMERSIVE_DARK_MODE = 20
	DWMWA_BORDER_COLOR            = 34
	DWMWA_CAPTION_COLOR           = 35
)

// SetDarkTitleBar matches the title bar to the black loading overlay.
func SetDarkTitleBar(window *glfw.Window) {
	win := window.GetWin32Window()
	if win == nil {
		return
	}
	hwnd := unsafe.Pointer(win)

	var useDarkMode int32 = 1
	setWindowAttribute(hwnd, DWMWA_USE_IMMERSIVE_DARK_MODE, unsafe.Pointer(&useDarkMode), unsafe.Sizeof(useDarkMode))

	var black uint32 = 0x00000000
	setWindowAttribute(hwnd, DWMWA_BORDER_COLOR, unsafe.Pointer(&black), unsafe.Sizeof(black))
	setWindowAttribute(hwnd, DWMWA_CAPTION_COLOR, unsafe.Pointer(&black), unsafe.Sizeof(black))
}

func setWindowAttribute(hwnd unsafe.Pointer, attr uintptr, value unsafe.Pointer, size uintptr) {
	procDwmSetWindowAttribute.Call(uintptr(hwnd), attr, uintptr(value), size)
}
