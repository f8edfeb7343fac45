package port

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintScenarioBroadcast(t *testing.T) {
	root := t.TempDir()
	writeTreeFile(t, root, "product/etc/build.prop",
		"ro.product.brand=Xiaomi\n"+
			"ro.product.mod_device=Port\n"+
			"ro.product.device=miproduct\n"+
			"ro.build.version.release=14\n"+
			"ro.build.id=AB1\n"+
			"ro.build.version.incremental=100\n"+
			"ro.build.type=user\n"+
			"ro.build.tags=release-keys\n"+
			"ro.build.fingerprint=old\n"+
			"ro.product.build.fingerprint=old\n"+
			"ro.build.description=old\n")
	writeTreeFile(t, root, "system/build.prop",
		"ro.build.fingerprint=old\n"+
			"ro.system.build.fingerprint=old\n"+
			"ro.bootimage.build.fingerprint=old\n"+
			"ro.system_ext.build.fingerprint=old\n"+
			"ro.system.build.description=old\n")
	writeTreeFile(t, root, "vendor/build.prop",
		"ro.vendor.build.fingerprint=old\n"+
			"ro.odm.build.fingerprint=old\n")
	writeTreeFile(t, root, "mi_ext/etc/build.prop",
		"ro.mi_ext.build.fingerprint=old\n")

	p := NewPipeline(emptyTables())
	require.NoError(t, p.regenerateFingerprint(BuildContext{Root: root, Stock: EmptySource{}}))

	wantFP := "Xiaomi/Port/miproduct:14/AB1/100:user/release-keys"
	wantDesc := "Port-user 14 AB1 100 release-keys"

	product := readTreeFile(t, root, "product/etc/build.prop")
	system := readTreeFile(t, root, "system/build.prop")
	vendor := readTreeFile(t, root, "vendor/build.prop")
	miExt := readTreeFile(t, root, "mi_ext/etc/build.prop")

	assert.Contains(t, product, "ro.build.fingerprint="+wantFP)
	assert.Contains(t, product, "ro.product.build.fingerprint="+wantFP)
	assert.Contains(t, product, "ro.build.description="+wantDesc)
	assert.Contains(t, system, "ro.build.fingerprint="+wantFP)
	assert.Contains(t, system, "ro.system.build.fingerprint="+wantFP)
	assert.Contains(t, system, "ro.bootimage.build.fingerprint="+wantFP)
	assert.Contains(t, system, "ro.system_ext.build.fingerprint="+wantFP)
	assert.Contains(t, system, "ro.system.build.description="+wantDesc)
	assert.Contains(t, vendor, "ro.vendor.build.fingerprint="+wantFP)
	assert.Contains(t, vendor, "ro.odm.build.fingerprint="+wantFP)
	assert.Contains(t, miExt, "ro.mi_ext.build.fingerprint="+wantFP)

	for _, content := range []string{product, system, vendor, miExt} {
		assert.NotContains(t, content, "=old")
	}
}

func TestFingerprintPrioritySearch(t *testing.T) {
	// The same key in two partitions: the higher-priority partition
	// (earlier in the search order) wins.
	root := t.TempDir()
	writeTreeFile(t, root, "product/etc/build.prop", "ro.product.brand=FromProduct\n")
	writeTreeFile(t, root, "system/build.prop", "ro.product.brand=FromSystem\n")
	writeTreeFile(t, root, "vendor/build.prop", "ro.build.id=FromVendor\n")

	assert.Equal(t, "FromProduct", treeProp(root, "ro.product.brand", ""))
	assert.Equal(t, "FromVendor", treeProp(root, "ro.build.id", ""))
	assert.Equal(t, "fallback", treeProp(root, "ro.absent", "fallback"))
}

func TestFingerprintDefaults(t *testing.T) {
	root := t.TempDir()
	writeTreeFile(t, root, "system/build.prop", "ro.build.fingerprint=old\n")

	p := NewPipeline(emptyTables())
	require.NoError(t, p.regenerateFingerprint(BuildContext{Root: root, Stock: EmptySource{}}))

	// brand/device/type/tags have literal defaults, the rest are empty.
	assert.Contains(t, readTreeFile(t, root, "system/build.prop"),
		"ro.build.fingerprint=Xiaomi//miproduct://:user/release-keys")
}

func TestFingerprintToleratesUnreadableFiles(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	writeTreeFile(t, root, "product/etc/build.prop", "ro.build.fingerprint=old\n")
	locked := writeTreeFile(t, root, "system/build.prop", "ro.build.fingerprint=old\n")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })

	p := NewPipeline(emptyTables())
	require.NoError(t, p.regenerateFingerprint(BuildContext{Root: root, Stock: EmptySource{}}))

	product := readTreeFile(t, root, "product/etc/build.prop")
	assert.True(t, strings.HasPrefix(product, "ro.build.fingerprint=Xiaomi/"),
		"readable files must still be rewritten, got: %s", product)
}

func TestStockTreeGetProp(t *testing.T) {
	root := t.TempDir()
	writeTreeFile(t, root, "product/etc/build.prop", "ro.sf.lcd_density=560\n")
	writeTreeFile(t, root, "system/build.prop", "ro.sf.lcd_density=440\nro.millet.netlink=29\n")

	stock := StockTree{Root: root}
	assert.Equal(t, "560", stock.GetProp("ro.sf.lcd_density"))
	assert.Equal(t, "29", stock.GetProp("ro.millet.netlink"))
	assert.Equal(t, "", stock.GetProp("ro.absent"))

	empty := StockTree{Root: filepath.Join(root, "nope")}
	assert.Equal(t, "", empty.GetProp("ro.sf.lcd_density"))
}
