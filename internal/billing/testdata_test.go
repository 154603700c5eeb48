package billing

const (
	coverPage = "商标注册申请书\n" +
		"申请人名称(中文)： 北京星河科技有限公司 (英文) Beijing Xinghe Technology Co., Ltd.\n" +
		"统一社会信用代码：91110108MA01XH7G2K\n" +
		"申请日期：2024年 1月 8日"

	attorneyStar = "商标代理委托书\n" +
		"委托人：北京星河科技有限公司\n" +
		"兹委托北京正信知识产权代理有限公司 代理 星河 商标的如下“商标注册申请”事宜。\n" +
		"委托日期：2024年3月5日"

	attorneyMoon = "商标代理委托书\n" +
		"兹委托北京正信知识产权代理有限公司 代理 月影 商标的如下“商标注册申请”事宜。"

	attorneyNoName = "商标代理委托书\n委托事项：见附页"
)

func categoryPage(codes ...string) string {
	s := "商品/服务项目\n"
	for _, c := range codes {
		s += "类别：" + c + "\n乐器；音乐盒\n"
	}
	return s
}
