package gpu

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Version is a packed Vulkan version number (VK_MAKE_VERSION layout).
type Version uint32

func CreateVersion(major, minor, patch uint32) Version {
	return Version(major<<22 | minor<<12 | patch)
}

const (
	Vulkan1_0 = Version(1 << 22)
	Vulkan1_1 = Version(1<<22 | 1<<12)
	Vulkan1_2 = Version(1<<22 | 2<<12)
)

func (v Version) Major() uint32 { return uint32(v) >> 22 }
func (v Version) Minor() uint32 { return (uint32(v) >> 12) & 0x3ff }
func (v Version) Patch() uint32 { return uint32(v) & 0xfff }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// ParseVersion reads a "major.minor.patch" triple.
func ParseVersion(s string) (Version, error) {
	var major, minor, patch uint32
	n, err := fmt.Sscanf(s, "%d.%d.%d", &major, &minor, &patch)
	if err != nil || n != 3 {
		return 0, errors.Newf("invalid version %q: want major.minor.patch", s)
	}
	if major > 0x3ff || minor > 0x3ff || patch > 0xfff {
		return 0, errors.Newf("invalid version %q: component out of range", s)
	}
	return CreateVersion(major, minor, patch), nil
}
