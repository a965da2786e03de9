//go:build integration

package fixture_test

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/soulbond/warpets-deployer/configs"
	"github.com/soulbond/warpets-deployer/internal/contracts"
	"github.com/soulbond/warpets-deployer/internal/fixture"
)

func ids(values ...int64) []*big.Int {
	out := make([]*big.Int, 0, len(values))
	for _, v := range values {
		out = append(out, big.NewInt(v))
	}
	return out
}

func ints(values []*big.Int) []int64 {
	out := make([]int64, 0, len(values))
	for _, v := range values {
		out = append(out, v.Int64())
	}
	return out
}

var _ = Describe("SoulbondWarPets", func() {
	var (
		warPets  *contracts.SoulbondWarPets
		warPetID = big.NewInt(configs.WarPetID)
		newID    = big.NewInt(1)
	)

	isolate()

	BeforeEach(func(ctx context.Context) {
		var err error
		warPets, err = fx.DeploySoulbondWarPets(ctx)
		Expect(err).NotTo(HaveOccurred())
	})

	mintAs := func(ctx context.Context, t contracts.Transactor, tokenIDs ...int64) error {
		_, err := warPets.Connect(t).Mint(ctx, ids(tokenIDs...))
		return err
	}

	balanceOf := func(ctx context.Context, account common.Address, id *big.Int) int64 {
		balance, err := warPets.BalanceOf(ctx, account, id)
		Expect(err).NotTo(HaveOccurred())
		return balance.Int64()
	}

	nationOf := func(ctx context.Context, id *big.Int) common.Address {
		nation, err := warPets.WarPetNation(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		return nation
	}

	activeWarPet := func(ctx context.Context) int64 {
		id, err := warPets.WarPetID(ctx)
		Expect(err).NotTo(HaveOccurred())
		return id.Int64()
	}

	unpause := func(ctx context.Context) {
		_, err := warPets.Unpause(ctx)
		Expect(err).NotTo(HaveOccurred())
	}

	forgeSecondToken := func(ctx context.Context) {
		Expect(fx.ForgeTokenOwnership(ctx, big.NewInt(1))).To(Succeed())
		Expect(fx.ForgeBalance(ctx, 2)).To(Succeed())
		Expect(fx.Sbren.OwnerOf(ctx, big.NewInt(1))).To(Equal(fixture.TokenOwner))
	}

	Describe("deployment", func() {
		It("has the name passed to the constructor", func(ctx context.Context) {
			Expect(warPets.Name(ctx)).To(Equal(configs.SoulbondWarPetsName))
		})

		It("has the uri passed to the constructor", func(ctx context.Context) {
			Expect(warPets.URI(ctx, big.NewInt(0))).To(Equal(configs.SoulbondWarPetsTokenURI))
		})

		It("has the war pet id passed to the constructor", func(ctx context.Context) {
			Expect(activeWarPet(ctx)).To(Equal(configs.WarPetID))
		})

		It("has the war pet nation passed to the constructor", func(ctx context.Context) {
			Expect(nationOf(ctx, warPetID)).To(Equal(fx.Sbren.Address()))
		})

		It("grants the default admin role to the deployer", func(ctx context.Context) {
			Expect(warPets.HasRole(ctx, contracts.DefaultAdminRole, fx.Deployer.Account())).To(BeTrue())
		})

		It("grants the operator role to the deployer", func(ctx context.Context) {
			Expect(warPets.HasRole(ctx, contracts.OperatorRole, fx.Deployer.Account())).To(BeTrue())
		})

		It("is paused initially", func(ctx context.Context) {
			Expect(warPets.Paused(ctx)).To(BeTrue())
		})

		It("is owned by the deployer", func(ctx context.Context) {
			Expect(warPets.Owner(ctx)).To(Equal(fx.Deployer.Account()))
		})

		It("has the token uri set", func(ctx context.Context) {
			Expect(warPets.TokenURIs(ctx, warPetID)).To(Equal(configs.SoulbondWarPetsTokenURI))
		})
	})

	Describe("mint", func() {
		BeforeEach(unpause)

		It("mints when the sender owns an unclaimed token", func(ctx context.Context) {
			Expect(balanceOf(ctx, fixture.TokenOwner, warPetID)).To(BeZero())
			Expect(mintAs(ctx, fx.Owner, 0)).To(Succeed())
			Expect(balanceOf(ctx, fixture.TokenOwner, warPetID)).To(Equal(int64(1)))
		})

		It("transfers nothing when no token id is given", func(ctx context.Context) {
			Expect(mintAs(ctx, fx.Owner)).To(Succeed())
			Expect(balanceOf(ctx, fixture.TokenOwner, warPetID)).To(BeZero())
		})

		It("fails when the sender is not the owner", func(ctx context.Context) {
			Expect(mintAs(ctx, fx.NonOwner, 0)).To(RevertWith("Sender is not a token owner"))
		})

		It("fails when the token has been claimed", func(ctx context.Context) {
			Expect(mintAs(ctx, fx.Owner, 0)).To(Succeed())
			Expect(mintAs(ctx, fx.Owner, 0)).To(RevertWith("Token has been claimed"))
		})

		It("fails when the token id is out of range", func(ctx context.Context) {
			Expect(mintAs(ctx, fx.Owner, 1_000_000)).
				To(RevertWith("panic code 0x32 (Array accessed at an out-of-bounds or negative index)"))
		})

		It("fails when the sender does not own every token", func(ctx context.Context) {
			Expect(fx.Sbren.OwnerOf(ctx, big.NewInt(9999))).NotTo(Equal(fixture.TokenOwner))
			Expect(mintAs(ctx, fx.Owner, 0, 9999)).To(RevertWith("Sender is not a token owner"))
		})

		It("fails when any of the tokens has been claimed", func(ctx context.Context) {
			Expect(fx.ForgeTokenOwnership(ctx, big.NewInt(1))).To(Succeed())
			Expect(fx.Sbren.OwnerOf(ctx, big.NewInt(1))).To(Equal(fixture.TokenOwner))

			Expect(mintAs(ctx, fx.Owner, 1)).To(Succeed())
			Expect(mintAs(ctx, fx.Owner, 0, 1)).To(RevertWith("Token has been claimed"))
		})

		It("fails while paused", func(ctx context.Context) {
			_, err := warPets.Pause(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(mintAs(ctx, fx.Owner, 0)).To(RevertWith("Pausable: paused"))
		})

		It("mints the same token id again after switching nation and war pet id", func(ctx context.Context) {
			otherSbren, err := fx.DeploySbren(ctx)
			Expect(err).NotTo(HaveOccurred())

			_, err = otherSbren.Pause(ctx, false)
			Expect(err).NotTo(HaveOccurred())
			_, err = otherSbren.WhiteListUserArrayWithIdList1(ctx, []common.Address{fixture.TokenOwner})
			Expect(err).NotTo(HaveOccurred())
			price := new(big.Int).Div(big.NewInt(params.Ether), big.NewInt(100))
			_, err = otherSbren.Connect(fx.Owner).Mint(ctx, big.NewInt(1), price)
			Expect(err).NotTo(HaveOccurred())

			Expect(mintAs(ctx, fx.Owner, 0)).To(Succeed())

			_, err = warPets.SwitchNation(ctx, otherSbren.Address(), newID)
			Expect(err).NotTo(HaveOccurred())

			Expect(mintAs(ctx, fx.Owner, 0)).To(Succeed())
		})

		It("mints the same token id again after switching only the war pet id", func(ctx context.Context) {
			Expect(mintAs(ctx, fx.Owner, 0)).To(Succeed())

			_, err := warPets.SwitchNation(ctx, fx.Sbren.Address(), newID)
			Expect(err).NotTo(HaveOccurred())

			Expect(mintAs(ctx, fx.Owner, 0)).To(Succeed())
		})
	})

	Describe("switchNation", func() {
		BeforeEach(func(ctx context.Context) {
			Expect(nationOf(ctx, warPetID)).To(Equal(fx.Sbren.Address()))
			Expect(activeWarPet(ctx)).To(Equal(configs.WarPetID))
		})

		It("switches to another nation and war pet id", func(ctx context.Context) {
			Expect(nationOf(ctx, newID)).To(Equal(common.Address{}))

			_, err := warPets.SwitchNation(ctx, fixture.RandomAddress, newID)
			Expect(err).NotTo(HaveOccurred())

			Expect(nationOf(ctx, warPetID)).To(Equal(fx.Sbren.Address()))
			Expect(nationOf(ctx, newID)).To(Equal(fixture.RandomAddress))
			Expect(activeWarPet(ctx)).To(Equal(newID.Int64()))
		})

		It("switches to the same nation with another war pet id", func(ctx context.Context) {
			_, err := warPets.SwitchNation(ctx, fx.Sbren.Address(), newID)
			Expect(err).NotTo(HaveOccurred())

			Expect(nationOf(ctx, warPetID)).To(Equal(fx.Sbren.Address()))
			Expect(nationOf(ctx, newID)).To(Equal(fx.Sbren.Address()))
			Expect(activeWarPet(ctx)).To(Equal(newID.Int64()))
		})

		It("refuses another nation for the same war pet id", func(ctx context.Context) {
			otherSbren, err := fx.DeploySbren(ctx)
			Expect(err).NotTo(HaveOccurred())

			_, err = warPets.SwitchNation(ctx, otherSbren.Address(), warPetID)
			Expect(err).To(RevertWith("War pet already has a nation"))
		})

		It("refuses the same nation for the same war pet id", func(ctx context.Context) {
			_, err := warPets.SwitchNation(ctx, fx.Sbren.Address(), warPetID)
			Expect(err).To(RevertWith("War pet already has a nation"))
		})
	})

	Describe("getTokenIds", func() {
		It("returns the token owned by an address", func(ctx context.Context) {
			tokenIDs, err := warPets.GetTokenIds(ctx, fixture.TokenOwner)
			Expect(err).NotTo(HaveOccurred())
			Expect(ints(tokenIDs)).To(ConsistOf(int64(0)))
		})

		It("returns every token owned by an address", func(ctx context.Context) {
			forgeSecondToken(ctx)

			tokenIDs, err := warPets.GetTokenIds(ctx, fixture.TokenOwner)
			Expect(err).NotTo(HaveOccurred())
			Expect(ints(tokenIDs)).To(ConsistOf(int64(0), int64(1)))
		})

		It("returns nothing for an address without tokens", func(ctx context.Context) {
			tokenIDs, err := warPets.GetTokenIds(ctx, fixture.NonTokenOwner)
			Expect(err).NotTo(HaveOccurred())
			Expect(tokenIDs).To(BeEmpty())
		})

		It("reverts for the zero address", func(ctx context.Context) {
			_, err := warPets.GetTokenIds(ctx, common.Address{})
			Expect(err).To(RevertWith("balance query for the zero address"))
		})
	})

	Describe("getFilteredTokenIds", func() {
		BeforeEach(func(ctx context.Context) {
			unpause(ctx)
			forgeSecondToken(ctx)
		})

		DescribeTable("filters by claim state",
			func(ctx context.Context, minted []int64, claimed bool, expected []int64) {
				if len(minted) > 0 {
					Expect(mintAs(ctx, fx.Owner, minted...)).To(Succeed())
				}

				tokenIDs, err := warPets.GetFilteredTokenIds(ctx, claimed, fixture.TokenOwner)
				Expect(err).NotTo(HaveOccurred())
				Expect(ints(tokenIDs)).To(ConsistOf(expected))
			},
			Entry("unclaimed, nothing minted", nil, false, []int64{0, 1}),
			Entry("unclaimed, one minted", []int64{0}, false, []int64{1}),
			Entry("unclaimed, all minted", []int64{0, 1}, false, []int64{}),
			Entry("claimed, nothing minted", nil, true, []int64{}),
			Entry("claimed, one minted", []int64{0}, true, []int64{0}),
			Entry("claimed, all minted", []int64{0, 1}, true, []int64{0, 1}),
		)
	})

	Describe("authorization", func() {
		missingRole := fixture.MissingRoleMessage(fixture.TokenOwner, contracts.OperatorRole)

		BeforeEach(unpause)

		It("allows only operators to call setTokenURI", func(ctx context.Context) {
			_, err := warPets.SwitchNation(ctx, fixture.RandomAddress, newID)
			Expect(err).NotTo(HaveOccurred())

			_, err = warPets.Connect(fx.Owner).SetTokenURI(ctx, newID, "myuri")
			Expect(err).To(RevertWith(missingRole))
			_, err = warPets.SetTokenURI(ctx, newID, "myuri")
			Expect(err).NotTo(HaveOccurred())
		})

		It("allows only operators to call pause", func(ctx context.Context) {
			_, err := warPets.Connect(fx.Owner).Pause(ctx)
			Expect(err).To(RevertWith(missingRole))
			_, err = warPets.Pause(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("allows only operators to call unpause", func(ctx context.Context) {
			_, err := warPets.Pause(ctx)
			Expect(err).NotTo(HaveOccurred())

			_, err = warPets.Connect(fx.Owner).Unpause(ctx)
			Expect(err).To(RevertWith(missingRole))
			_, err = warPets.Unpause(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("allows only operators to call switchNation", func(ctx context.Context) {
			_, err := warPets.Connect(fx.Owner).SwitchNation(ctx, fixture.RandomAddress, newID)
			Expect(err).To(RevertWith(missingRole))
			_, err = warPets.SwitchNation(ctx, fixture.RandomAddress, newID)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("transfer", func() {
		BeforeEach(func(ctx context.Context) {
			unpause(ctx)
			Expect(mintAs(ctx, fx.Owner, 0)).To(Succeed())
		})

		transfer := func(ctx context.Context) {
			Expect(balanceOf(ctx, fixture.TokenOwner, warPetID)).To(Equal(int64(1)))
			Expect(balanceOf(ctx, fixture.NonTokenOwner, warPetID)).To(BeZero())

			_, err := warPets.Connect(fx.Owner).SafeTransferFrom(ctx, fixture.TokenOwner, fixture.NonTokenOwner, warPetID, big.NewInt(1), nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(balanceOf(ctx, fixture.TokenOwner, warPetID)).To(BeZero())
			Expect(balanceOf(ctx, fixture.NonTokenOwner, warPetID)).To(Equal(int64(1)))
		}

		It("transfers while paused", func(ctx context.Context) {
			_, err := warPets.Pause(ctx)
			Expect(err).NotTo(HaveOccurred())

			transfer(ctx)
		})

		It("transfers while not paused", func(ctx context.Context) {
			transfer(ctx)
		})
	})

	Describe("setTokenURI", func() {
		It("sets the uri of a war pet with a nation", func(ctx context.Context) {
			_, err := warPets.SwitchNation(ctx, fixture.RandomAddress, newID)
			Expect(err).NotTo(HaveOccurred())

			_, err = warPets.SetTokenURI(ctx, newID, "myuri")
			Expect(err).NotTo(HaveOccurred())
			Expect(warPets.TokenURIs(ctx, newID)).To(Equal("myuri"))
		})

		It("reverts for a war pet without a nation", func(ctx context.Context) {
			_, err := warPets.SetTokenURI(ctx, newID, "myuri")
			Expect(err).To(RevertWith("setTokenURI: Token should exist"))
		})

		It("changes an existing uri", func(ctx context.Context) {
			Expect(warPets.TokenURIs(ctx, warPetID)).To(Equal(configs.SoulbondWarPetsTokenURI))

			_, err := warPets.SetTokenURI(ctx, warPetID, "myuri")
			Expect(err).NotTo(HaveOccurred())
			Expect(warPets.TokenURIs(ctx, warPetID)).To(Equal("myuri"))
		})
	})

	Describe("uri", func() {
		It("returns the uri of a war pet", func(ctx context.Context) {
			Expect(warPets.URI(ctx, warPetID)).To(Equal(configs.SoulbondWarPetsTokenURI))
		})

		It("returns an empty string for an unknown war pet", func(ctx context.Context) {
			Expect(warPets.URI(ctx, newID)).To(BeEmpty())
		})
	})
})
