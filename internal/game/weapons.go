package game

// Weapon is a constant combat profile. The four weapons are indexed 0..3
// and never mutated at runtime — the table is the shared contract between
// client prediction and server validation.
type Weapon struct {
	Name        string
	Damage      uint8
	FireRateMs  float64
	Range       float64
	Spread      float64
	BulletCount int
}

// weaponTable is the fixed 0..3 weapon index contract the wire protocol's
// weapon byte indexes into.
var weaponTable = [4]Weapon{
	{Name: "Pistol", Damage: 25, FireRateMs: 400, Range: 100, Spread: 0.02, BulletCount: 1},
	{Name: "SMG", Damage: 15, FireRateMs: 100, Range: 50, Spread: 0.08, BulletCount: 1},
	{Name: "Rifle", Damage: 35, FireRateMs: 150, Range: 150, Spread: 0.01, BulletCount: 1},
	{Name: "Shotgun", Damage: 15, FireRateMs: 800, Range: 20, Spread: 0.15, BulletCount: 8},
}

// GetWeapon returns the weapon at idx, defaulting to the Pistol for any
// out-of-range index rather than panicking — an attacker-controlled weapon
// byte must never crash the room.
func GetWeapon(idx uint8) Weapon {
	if int(idx) < len(weaponTable) {
		return weaponTable[idx]
	}
	return weaponTable[0]
}
